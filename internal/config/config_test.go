package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	configContent := `
storage:
  directory: "/var/lib/lotto645"
crawler:
  base_url: "http://localhost:9090"
  request_timeout: 5s
  max_retries: 2
  retry_delay: 500ms
nats:
  url: "nats://localhost:4222"
  subject: "lotto.test"
recommend:
  quota: 3
  draw_cap: 200
  pick_cap: 100
`
	if err := os.WriteFile(path, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Storage.Directory != "/var/lib/lotto645" {
		t.Errorf("Expected storage directory '/var/lib/lotto645', got '%s'", cfg.Storage.Directory)
	}
	if cfg.Crawler.BaseURL != "http://localhost:9090" {
		t.Errorf("Expected crawler base URL 'http://localhost:9090', got '%s'", cfg.Crawler.BaseURL)
	}
	if cfg.Crawler.RequestTimeout != 5*time.Second {
		t.Errorf("Expected request timeout 5s, got %v", cfg.Crawler.RequestTimeout)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("Expected NATS URL 'nats://localhost:4222', got '%s'", cfg.NATS.URL)
	}
	if cfg.NATS.Subject != "lotto.test" {
		t.Errorf("Expected NATS subject 'lotto.test', got '%s'", cfg.NATS.Subject)
	}
	if cfg.Recommend.Quota != 3 || cfg.Recommend.DrawCap != 200 || cfg.Recommend.PickCap != 100 {
		t.Errorf("Unexpected recommend config: %+v", cfg.Recommend)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Storage.Directory != "data/draws" {
		t.Errorf("Expected default storage directory 'data/draws', got '%s'", cfg.Storage.Directory)
	}
	if cfg.Crawler.BaseURL != "https://www.dhlottery.co.kr" {
		t.Errorf("Unexpected default base URL '%s'", cfg.Crawler.BaseURL)
	}
	if cfg.Crawler.MaxRetries != 3 || cfg.Crawler.RetryDelay != 2*time.Second {
		t.Errorf("Unexpected crawler defaults: %+v", cfg.Crawler)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("Expected NATS disabled by default, got URL '%s'", cfg.NATS.URL)
	}
	if cfg.Recommend.Quota != 5 || cfg.Recommend.DrawCap != 1000 || cfg.Recommend.PickCap != 1000 {
		t.Errorf("Unexpected recommend defaults: %+v", cfg.Recommend)
	}
}
