package worker

import (
	"context"
	"time"
)

// Worker background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker call onTick every Delay, waiting ErrDelay instead after a failed tick
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick block until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = w.Delay
	}

	dur := time.Millisecond
	for {
		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if err := onTick(ctx); err != nil {
				dur = errDelay
			} else {
				dur = w.Delay
			}
		}
	}
}
