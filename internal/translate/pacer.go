package translate

import (
	"context"
	"time"
)

// Pacer is the delay policy between consecutive chunk requests of a batch.
type Pacer interface {
	WaitBetweenChunks(ctx context.Context) error
}

// Throttle gates each per-string fallback call. *rate.Limiter satisfies it.
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedPacer sleeps for Delay, returning early with ctx's error.
type FixedPacer struct {
	Delay time.Duration
}

func (p FixedPacer) WaitBetweenChunks(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoopPacer never waits.
type NoopPacer struct{}

func (NoopPacer) WaitBetweenChunks(context.Context) error { return nil }
