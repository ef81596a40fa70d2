package link

import (
	"context"
	"sync"
	"sync/atomic"
)

// PipeEnd is one side of an in-memory link. Messages are encoded and decoded
// on the way through, so both ends see exactly what the wire would carry.
// Delivery is synchronous: Send returns after the peer's receiver returns.
type PipeEnd struct {
	state *pipeState
	peer  *PipeEnd

	mu   sync.RWMutex
	recv Receiver
}

type pipeState struct {
	reachable atomic.Bool
}

// NewPipe returns two connected ends. The pipe starts reachable; messages
// sent before the peer attaches a receiver fail with ErrUnreachable.
func NewPipe() (*PipeEnd, *PipeEnd) {
	state := &pipeState{}
	state.reachable.Store(true)

	a := &PipeEnd{state: state}
	b := &PipeEnd{state: state, peer: a}
	a.peer = b
	return a, b
}

// Attach sets the receiver for messages sent by the peer.
func (p *PipeEnd) Attach(r Receiver) {
	p.mu.Lock()
	p.recv = r
	p.mu.Unlock()
}

// SetReachable switches the connection on or off for both ends.
func (p *PipeEnd) SetReachable(ok bool) {
	p.state.reachable.Store(ok)
}

func (p *PipeEnd) Reachable(ctx context.Context) bool {
	return ctx.Err() == nil && p.state.reachable.Load() && p.peer.receiver() != nil
}

func (p *PipeEnd) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recv := p.peer.receiver()
	if !p.state.reachable.Load() || recv == nil {
		return ErrUnreachable
	}

	data, err := Encode(m)
	if err != nil {
		return err
	}
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	return recv.HandleMessage(ctx, decoded)
}

func (p *PipeEnd) receiver() Receiver {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.recv
}

var _ Link = (*PipeEnd)(nil)
