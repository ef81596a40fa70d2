package mirror

import (
	"context"
	"sync"
)

// runner guards the single Start/Stop cycle of a coordinator.
type runner struct {
	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// begin derives the loop context. It fails on every call after the first.
func (r *runner) begin(ctx context.Context) (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil, nil, ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	r.started, r.cancel, r.done = true, cancel, make(chan struct{})

	done := r.done
	return ctx, func() { cancel(); close(done) }, nil
}

// stop cancels the loop and waits for it to return. It is a no-op before
// Start.
func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
