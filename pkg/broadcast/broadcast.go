package broadcast

import (
	"context"
	"sync"
)

// Subscriber receives values published after it subscribed.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the subscriber
	// is closed, its context is cancelled or the broadcaster shuts down.
	Receive() <-chan T

	// Close is idempotent.
	Close() error
}

// Broadcaster fans values out to subscribers without blocking the publisher.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Publish(v T)
	Close() error
}

type subscriber[T any] struct {
	ch     chan T
	closed bool
	mu     sync.Mutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{ch: make(chan T, bufferSize)}
}

func (s *subscriber[T]) Receive() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send never blocks: when the buffer is full the oldest pending value is
// evicted so the newest one is always delivered.
func (s *subscriber[T]) send(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
