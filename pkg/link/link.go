package link

import "context"

// Link sends messages to the peer node.
type Link interface {
	// Send delivers m or returns an error. An unreachable peer yields an
	// error joined with ErrUnreachable.
	Send(ctx context.Context, m Message) error
	// Reachable reports whether the peer currently accepts messages.
	Reachable(ctx context.Context) bool
}

// Receiver handles inbound messages.
type Receiver interface {
	HandleMessage(ctx context.Context, m Message) error
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(ctx context.Context, m Message) error

func (f ReceiverFunc) HandleMessage(ctx context.Context, m Message) error {
	return f(ctx, m)
}
