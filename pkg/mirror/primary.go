package mirror

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/otpmirror/pkg/async"
	"github.com/dmitrymomot/otpmirror/pkg/link"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
	"github.com/dmitrymomot/otpmirror/pkg/snapshot"
	"github.com/dmitrymomot/otpmirror/pkg/vault"
)

// Primary pushes snapshot batches built from a vault to the secondary.
type Primary struct {
	vault *vault.Vault
	link  link.Link
	opts  options
	log   *slog.Logger

	run      runner
	inflight async.Inflight
}

// NewPrimary returns a coordinator pushing v's visible credentials over l.
func NewPrimary(v *vault.Vault, l link.Link, opts ...Option) *Primary {
	o := newOptions(DefaultPushInterval, opts)
	return &Primary{
		vault: v,
		link:  l,
		opts:  o,
		log:   logger.OrNop(o.log).With(logger.Component("mirror"), logger.Role("primary")),
	}
}

// Start pushes immediately, then on every tick, on every vault change and on
// every requestUpdate. It blocks until ctx is done or Stop is called, then
// waits for in-flight sends. A Primary can be started once.
func (p *Primary) Start(ctx context.Context) error {
	ctx, end, err := p.run.begin(ctx)
	if err != nil {
		return err
	}
	defer end()

	events := p.vault.Subscribe(ctx)
	defer events.Close()
	changes := events.Receive()

	ticker := p.opts.clock.NewTicker(p.opts.interval)
	defer ticker.Stop()

	p.log.InfoContext(ctx, "primary started", logger.Duration(p.opts.interval))
	p.Push(ctx)

	for {
		select {
		case <-ctx.Done():
			p.inflight.Wait()
			p.log.InfoContext(ctx, "primary stopped")
			return nil
		case <-ticker.C():
			p.Push(ctx)
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			p.log.DebugContext(ctx, "vault changed, pushing", logger.Action(string(ev.Type)))
			p.Push(ctx)
		}
	}
}

// Stop ends Start and waits for in-flight sends.
func (p *Primary) Stop() {
	p.run.stop()
}

// Push builds the current batch and sends it in the background. The batch is
// built when the send starts, not when Push is called. An unreachable peer
// completes the future with link.ErrUnreachable and sends nothing. Sends
// outlive ctx cancellation up to the send timeout.
func (p *Primary) Push(ctx context.Context) *async.Future[struct{}] {
	return p.inflight.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.opts.sendTimeout)
		defer cancel()

		if !p.link.Reachable(ctx) {
			p.log.DebugContext(ctx, "peer unreachable, skipping push")
			return link.ErrUnreachable
		}

		batch := snapshot.BuildAll(p.vault.Credentials(), p.vault.GroupColor, p.opts.clock.Now())
		if err := p.link.Send(ctx, link.PushMessage(batch)); err != nil {
			p.log.WarnContext(ctx, "push failed", logger.Error(err))
			return err
		}
		p.log.DebugContext(ctx, "pushed snapshots", logger.Count(len(batch)))
		return nil
	})
}

// HandleMessage serves control messages from the secondary. Increment
// requests for unknown or non-HOTP credentials are ignored; a successful
// increment triggers a push through the vault change event.
func (p *Primary) HandleMessage(ctx context.Context, m link.Message) error {
	if m.Control == nil {
		p.log.DebugContext(ctx, "ignoring non-control message")
		return nil
	}

	switch m.Control.Action {
	case link.ActionRequestUpdate:
		p.Push(ctx)
	case link.ActionIncrementCounter:
		_, err := p.vault.IncrementHOTPCounter(ctx, m.Control.SecretID)
		switch {
		case err == nil:
		case errors.Is(err, vault.ErrNotFound), errors.Is(err, vault.ErrNotHOTP), errors.Is(err, vault.ErrCounterExhausted):
			p.log.DebugContext(ctx, "ignoring increment request",
				logger.CredentialID(m.Control.SecretID), logger.Error(err))
		default:
			return err
		}
	}
	return nil
}

var _ link.Receiver = (*Primary)(nil)
