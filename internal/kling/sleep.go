package kling

import (
	"context"
	"time"
)

// Sleeper waits between polls. Implementations must return ctx.Err() as soon
// as ctx is done, and must not sleep at all when it already is.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
