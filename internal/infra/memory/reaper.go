package memory

import (
	"context"
	"log/slog"
	"time"
)

// Reaper removes entries that expired at now.
type Reaper interface {
	Reap(now time.Time) int
}

// RunReaper sweeps targets every interval until ctx is done.
func RunReaper(ctx context.Context, interval time.Duration, logger *slog.Logger, targets ...Reaper) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed := 0
			for _, t := range targets {
				removed += t.Reap(now)
			}
			if removed > 0 && logger != nil {
				logger.Debug("reaped expired entries", "count", removed)
			}
		}
	}
}
