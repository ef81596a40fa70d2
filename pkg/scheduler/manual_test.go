package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpmirror/pkg/scheduler"
)

var epoch = time.Unix(1_700_000_000, 0).UTC()

func TestManualClock_Now(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	assert.Equal(t, epoch, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, epoch.Add(90*time.Second), c.Now())

	c.Set(epoch)
	assert.Equal(t, epoch, c.Now())
}

func TestManualClock_TickerFiresWhenDue(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	tk := c.NewTicker(5 * time.Second)
	defer tk.Stop()

	c.Advance(4 * time.Second)
	assertNoTick(t, tk)

	c.Advance(time.Second)
	assert.Equal(t, epoch.Add(5*time.Second), <-tk.C())

	c.Advance(5 * time.Second)
	assert.Equal(t, epoch.Add(10*time.Second), <-tk.C())
}

func TestManualClock_SlowReaderMissesTicks(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	tk := c.NewTicker(time.Second)
	defer tk.Stop()

	c.Advance(time.Second)
	c.Advance(time.Second)
	c.Advance(time.Second)

	assert.Equal(t, epoch.Add(time.Second), <-tk.C())
	assertNoTick(t, tk)

	// Schedule keeps its phase after a long jump.
	c.Advance(10 * time.Second)
	<-tk.C()
	c.Advance(time.Second)
	assert.Equal(t, epoch.Add(14*time.Second), <-tk.C())
}

func TestManualClock_StopRemovesTicker(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	tk := c.NewTicker(time.Second)
	require.Equal(t, 1, c.Tickers())

	tk.Stop()
	assert.Equal(t, 0, c.Tickers())

	c.Advance(time.Minute)
	assertNoTick(t, tk)
}

func TestManualClock_SetBackwardRearmsTickers(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	tk := c.NewTicker(10 * time.Second)
	defer tk.Stop()

	c.Set(epoch.Add(-time.Hour))
	c.Advance(9 * time.Second)
	assertNoTick(t, tk)

	c.Advance(time.Second)
	assert.Equal(t, epoch.Add(-time.Hour+10*time.Second), <-tk.C())
}

func TestManualClock_BlockUntil(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.NewTicker(time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.BlockUntil(ctx, 1))

	short, cancelShort := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelShort()
	assert.ErrorIs(t, c.BlockUntil(short, 2), context.DeadlineExceeded)
}

func TestManualClock_NonPositiveIntervalPanics(t *testing.T) {
	t.Parallel()

	c := scheduler.NewManualClock(epoch)
	assert.Panics(t, func() { c.NewTicker(0) })
}

func TestRealClock(t *testing.T) {
	t.Parallel()

	c := scheduler.OrReal(nil)
	before := time.Now()
	assert.False(t, c.Now().Before(before))

	tk := c.NewTicker(time.Millisecond)
	defer tk.Stop()
	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not fire")
	}
}

func assertNoTick(t *testing.T, tk scheduler.Ticker) {
	t.Helper()
	select {
	case v := <-tk.C():
		t.Fatalf("unexpected tick at %v", v)
	default:
	}
}
