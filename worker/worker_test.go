package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartTick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w := TickWorker{Delay: 10 * time.Millisecond}

	var ticks int32
	err := w.StartTick(ctx, func(ctx context.Context) error {
		atomic.AddInt32(&ticks, 1)
		return nil
	})

	assert.Equal(t, context.DeadlineExceeded, err)
	assert.True(t, atomic.LoadInt32(&ticks) > 1)
}

func TestStartTickErrDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w := TickWorker{Delay: time.Millisecond, ErrDelay: time.Hour}

	var ticks int32
	_ = w.StartTick(ctx, func(ctx context.Context) error {
		atomic.AddInt32(&ticks, 1)
		return errors.New("failed")
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&ticks))
}
