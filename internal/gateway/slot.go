package gateway

import (
	"context"
	"time"
)

// slotPool is a counting semaphore over a buffered channel.
type slotPool struct {
	sem chan struct{}
}

func newSlotPool(size int) *slotPool {
	return &slotPool{sem: make(chan struct{}, size)}
}

// acquire blocks until a slot is free, ctx is done, or timeout elapses. A
// non-positive timeout waits for ctx alone. The returned release must be
// called exactly once when ok is true.
func (p *slotPool) acquire(ctx context.Context, timeout time.Duration) (release func(), ok bool) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}
