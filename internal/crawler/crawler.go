// Package crawler syncs the local draw store with the lottery site.
package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/lottostack/lotto645/internal/config"
	"github.com/lottostack/lotto645/internal/events"
	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/retry"
	"github.com/lottostack/lotto645/internal/stats"
	"github.com/lottostack/lotto645/internal/store"
)

type Crawler struct {
	client  *Client
	store   *store.DrawStore
	emitter *events.Emitter // nil when NATS is not configured
	cfg     config.CrawlerConfig
}

func New(client *Client, drawStore *store.DrawStore, emitter *events.Emitter, cfg config.CrawlerConfig) *Crawler {
	return &Crawler{
		client:  client,
		store:   drawStore,
		emitter: emitter,
		cfg:     cfg,
	}
}

// Sync fetches every round between the stored cursor and the latest round
// published on the site, then refreshes the frequency snapshot. A round that
// keeps failing after retries is logged and skipped so one bad page does not
// stall the rest of the sync; the cursor only advances through the highest
// contiguously stored round, so skipped rounds are refetched on the next
// sync. Returns the number of newly stored rounds.
func (c *Crawler) Sync(ctx context.Context) (int, error) {
	latest, err := c.latestRound(ctx)
	if err != nil {
		return 0, err
	}

	lastSaved, err := c.store.LatestRound()
	if err != nil {
		return 0, err
	}

	if latest <= lastSaved {
		slog.Info("Already up to date", "round", lastSaved)
		return 0, nil
	}
	slog.Info("Syncing rounds", "from", lastSaved+1, "to", latest)

	saved := 0
	cursor := lastSaved
	for round := lastSaved + 1; round <= latest; round++ {
		var record *lotto.DrawRecord
		err := retry.Constant(func() error {
			var fetchErr error
			record, fetchErr = c.client.FetchRound(ctx, round)
			return fetchErr
		}, c.cfg.RetryDelay, c.cfg.MaxRetries)
		if err != nil {
			slog.Error("Skipping round", "round", round, "error", err)
			continue
		}

		if err := c.store.SaveDraw(record); err != nil {
			slog.Error("Skipping round", "round", round, "error", err)
			continue
		}
		saved++
		slog.Debug("Saved round", "round", round)
		// Leave the cursor below any skipped round; later rounds are
		// stored now and re-saved idempotently when the gap closes.
		if cursor == round-1 {
			cursor = round
		}

		if c.emitter != nil {
			if err := c.emitter.EmitDraw(record); err != nil {
				slog.Warn("Emit failed", "round", round, "error", err)
			}
		}
	}

	if err := c.store.SaveLatestRound(cursor); err != nil {
		return saved, err
	}
	if err := c.refreshFrequency(); err != nil {
		return saved, err
	}

	slog.Info("Sync finished", "new_rounds", saved, "cursor", cursor, "latest", latest)
	return saved, nil
}

// latestRound looks up the latest published round. The result page load is
// the flakiest request of the sync, so it gets exponential backoff instead
// of the per-round constant retry.
func (c *Crawler) latestRound(ctx context.Context) (int, error) {
	var latest int
	err := retry.Exponential(func() error {
		var lookupErr error
		latest, lookupErr = c.client.LatestRound(ctx)
		return lookupErr
	}, retry.ExponentialConfig{
		InitialInterval: c.cfg.RetryDelay,
		MaxElapsedTime:  c.cfg.RetryDelay * time.Duration(c.cfg.MaxRetries),
		OnRetry: func(err error, next time.Duration) {
			slog.Warn("Retrying latest-round lookup", "error", err, "next", next)
		},
	})
	return latest, err
}

// refreshFrequency recomputes the snapshot from the full collection; no
// incremental updates, no staleness.
func (c *Crawler) refreshFrequency() error {
	records, err := c.store.ListDraws()
	if err != nil {
		return err
	}
	return c.store.SaveFrequencySnapshot(stats.Frequency(records))
}
