package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Directory string `yaml:"directory"`
}

type CrawlerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type RecommendConfig struct {
	Quota   int `yaml:"quota"`    // accepted candidate sets per strategy
	DrawCap int `yaml:"draw_cap"` // candidate draws per strategy before giving up
	PickCap int `yaml:"pick_cap"` // weighted picks per candidate before giving up
}

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Crawler   CrawlerConfig   `yaml:"crawler"`
	NATS      NATSConfig      `yaml:"nats"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// Load reads a yaml config file and applies defaults for anything unset.
// A missing file yields the pure-default config.
func Load(path string) (*Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Set defaults
	if config.Storage.Directory == "" {
		config.Storage.Directory = "data/draws"
	}
	if config.Crawler.BaseURL == "" {
		config.Crawler.BaseURL = "https://www.dhlottery.co.kr"
	}
	if config.Crawler.RequestTimeout == 0 {
		config.Crawler.RequestTimeout = 15 * time.Second
	}
	if config.Crawler.MaxRetries == 0 {
		config.Crawler.MaxRetries = 3
	}
	if config.Crawler.RetryDelay == 0 {
		config.Crawler.RetryDelay = 2 * time.Second
	}
	if config.NATS.Subject == "" {
		config.NATS.Subject = "lotto.draws"
	}
	if config.Recommend.Quota == 0 {
		config.Recommend.Quota = 5
	}
	if config.Recommend.DrawCap == 0 {
		config.Recommend.DrawCap = 1000
	}
	if config.Recommend.PickCap == 0 {
		config.Recommend.PickCap = 1000
	}

	return &config, nil
}
