package async

import (
	"context"
	"sync"
)

// Future is the result of a function running in its own goroutine.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Run starts fn in a new goroutine. A context that is already cancelled
// short-circuits fn and completes the future with ctx.Err().
func Run[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(ctx)
	}()

	return f
}

// Await blocks until the function returns.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the function returns or ctx is done. In the
// latter case the function keeps running and ctx.Err() is returned.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done is closed once the function has returned.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports without blocking whether the function has returned.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Inflight tracks fire-and-forget work so that shutdown can wait for it.
// The zero value is ready to use.
type Inflight struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// Go runs fn asynchronously unless Wait has already been called, in which
// case it returns a future completed with ErrClosed.
func (in *Inflight) Go(ctx context.Context, fn func(context.Context) error) *Future[struct{}] {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		f := &Future[struct{}]{done: make(chan struct{}), err: ErrClosed}
		close(f.done)
		return f
	}
	in.wg.Add(1)
	in.mu.Unlock()

	f := &Future[struct{}]{done: make(chan struct{})}
	go func() {
		defer in.wg.Done()
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.err = fn(ctx)
	}()
	return f
}

// Wait refuses new work and blocks until everything started by Go returns.
func (in *Inflight) Wait() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
	in.wg.Wait()
}

// WaitAll awaits every future in order and returns the first error seen.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error
	for i, f := range futures {
		res, err := f.Await()
		results[i] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}
