package qrgen

import (
	"context"
	"log/slog"
	"time"
)

// purgeInterval is how often the retention loop sweeps the history store.
const purgeInterval = time.Hour

// HistoryPurger is implemented by the history store.
type HistoryPurger interface {
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

// StartPurgeLoop runs a goroutine that deletes history records older than
// retention, once immediately and then every hour, until ctx is cancelled.
// A retention of zero disables purging and starts nothing.
func StartPurgeLoop(ctx context.Context, store HistoryPurger, retention time.Duration, log *slog.Logger) {
	if retention <= 0 {
		return
	}
	go purgeLoop(ctx, store, retention, log)
}

func purgeLoop(ctx context.Context, store HistoryPurger, retention time.Duration, log *slog.Logger) {
	purge := func() {
		cutoff := time.Now().Add(-retention)
		n, err := store.PurgeOlderThan(cutoff)
		if err != nil {
			log.Warn("history purge failed", "error", err)
			return
		}
		if n > 0 {
			log.Info("purged old history records", "count", n, "cutoff", cutoff)
		}
	}

	purge()

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("purge loop stopped")
			return
		case <-ticker.C:
			purge()
		}
	}
}
