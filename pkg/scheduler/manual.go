package scheduler

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when Advance or Set is called.
// Tickers created from it fire synchronously inside Advance.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
	changed chan struct{}
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, changed: make(chan struct{})}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker panics on a non-positive interval, matching time.NewTicker.
func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("scheduler: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTicker{
		clock:  c,
		period: d,
		next:   c.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	c.notify()
	return t
}

// Advance moves the clock forward by d and fires every ticker that became due.
// A ticker due several times within d delivers at most one buffered tick.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(c.now.Add(d))
}

// Set jumps to t. Moving forward fires due tickers; moving backward only
// changes what Now reports.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		c.now = t
		for _, tk := range c.tickers {
			tk.next = t.Add(tk.period)
		}
		return
	}
	c.moveTo(t)
}

// Tickers reports how many tickers are active.
func (c *ManualClock) Tickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// BlockUntil waits until at least n tickers are active or ctx is done.
// Tests use it to make sure a loop has armed its ticker before advancing.
func (c *ManualClock) BlockUntil(ctx context.Context, n int) error {
	for {
		c.mu.Lock()
		if len(c.tickers) >= n {
			c.mu.Unlock()
			return nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *ManualClock) moveTo(t time.Time) {
	c.now = t
	for _, tk := range c.tickers {
		if tk.next.After(t) {
			continue
		}
		select {
		case tk.ch <- t:
		default:
		}
		for !tk.next.After(t) {
			tk.next = tk.next.Add(tk.period)
		}
	}
}

func (c *ManualClock) remove(t *manualTicker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, tk := range c.tickers {
		if tk == t {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			c.notify()
			return
		}
	}
}

// notify wakes BlockUntil callers. Must hold c.mu.
func (c *ManualClock) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

type manualTicker struct {
	clock  *ManualClock
	period time.Duration
	next   time.Time
	ch     chan time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() { t.clock.remove(t) }
