package mirror

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/otpmirror/pkg/scheduler"
)

const (
	DefaultPushInterval    = 5 * time.Second
	DefaultRequestInterval = 5 * time.Second
	DefaultSendTimeout     = 3 * time.Second
)

type options struct {
	clock       scheduler.Clock
	interval    time.Duration
	sendTimeout time.Duration
	log         *slog.Logger
}

// Option configures a Primary or a Secondary.
type Option func(*options)

// WithClock replaces the real clock, typically with a scheduler.ManualClock.
func WithClock(c scheduler.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithInterval sets the push interval of a Primary or the update request
// interval of a Secondary.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithSendTimeout bounds every outbound message, probe included.
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sendTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(interval time.Duration, opts []Option) options {
	o := options{interval: interval, sendTimeout: DefaultSendTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	o.clock = scheduler.OrReal(o.clock)
	return o
}
