package service

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredDeleter is implemented by token stores that need explicit cleanup.
// The Redis store expires keys itself and does not run a janitor.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Janitor periodically removes expired share tokens. Expiry is enforced at
// read time regardless; the sweep only reclaims memory.
type Janitor struct {
	store    ExpiredDeleter
	logger   *slog.Logger
	interval time.Duration
}

func NewJanitor(store ExpiredDeleter, logger *slog.Logger, interval time.Duration) *Janitor {
	return &Janitor{store: store, logger: logger, interval: interval}
}

// Run sweeps until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			deleted, err := j.store.DeleteExpired(ctx, now)
			if err != nil {
				j.logger.ErrorContext(ctx, "share token sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				j.logger.DebugContext(ctx, "share tokens swept", "deleted", deleted)
			}
		}
	}
}
