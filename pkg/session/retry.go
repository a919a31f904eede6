package session

import (
	"context"
	"time"
)

// wait sleeps attempt*interval, returning early when ctx is done.
func wait(ctx context.Context, attempt int, interval time.Duration) error {
	t := time.NewTimer(time.Duration(attempt) * interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
