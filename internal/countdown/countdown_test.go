package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2023, 7, 6, 9, 0, 0, 0, time.UTC)

func newFake(t *testing.T) (*Countdown, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(epoch)
	c := New(Options{Clock: fc, TickInterval: time.Second})
	t.Cleanup(c.Stop)
	return c, fc
}

func TestCountdown_DriftCorrected(t *testing.T) {
	c, fc := newFake(t)
	c.Start(60 * time.Second)

	// Ticks arrive between 0.9x and 1.3x of the nominal period.
	jitter := []float64{0.9, 1.3, 1.1, 1.0, 1.25, 0.95, 1.2}
	var elapsed time.Duration
	for i := 0; i < 1000; i++ {
		step := time.Duration(jitter[i%len(jitter)] * float64(time.Second))
		fc.Advance(step)
		elapsed += step
		if c.Refresh().Progress >= 1 {
			break
		}
	}

	assert.GreaterOrEqual(t, elapsed, 60*time.Second)
	assert.Less(t, elapsed-60*time.Second, 1300*time.Millisecond)
	assert.Zero(t, c.Remaining())
}

func TestCountdown_PauseDoesNotLeakTime(t *testing.T) {
	c, fc := newFake(t)
	c.Start(60 * time.Second)

	fc.Advance(20 * time.Second)
	c.Pause()
	paused := c.Progress()
	assert.InDelta(t, 1.0/3, paused, 1e-9)

	fc.Advance(30 * time.Second)
	assert.InDelta(t, paused, c.Refresh().Progress, 1e-9, "progress moved while paused")

	c.Resume()
	fc.Advance(39 * time.Second)
	assert.Less(t, c.Refresh().Progress, 1.0)

	fc.Advance(time.Second)
	snap := c.Refresh()
	assert.Equal(t, 1.0, snap.Progress)
	assert.Equal(t, 90*time.Second, fc.Since(epoch), "wall time = duration + paused time")
}

func TestCountdown_AddOneMinute(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		c, fc := newFake(t)
		c.Start(time.Minute)
		fc.Advance(30 * time.Second)
		require.InDelta(t, 0.5, c.Refresh().Progress, 1e-9)

		c.AddOneMinute()
		snap := c.Snapshot()
		assert.Equal(t, 2*time.Minute, snap.Total)
		assert.Equal(t, 90*time.Second, snap.Remaining)
		assert.InDelta(t, 0.25, snap.Progress, 1e-9)
	})

	t.Run("paused", func(t *testing.T) {
		c, fc := newFake(t)
		c.Start(time.Minute)
		fc.Advance(30 * time.Second)
		c.Pause()

		c.AddOneMinute()
		assert.Equal(t, 90*time.Second, c.Remaining())

		c.Resume()
		fc.Advance(90 * time.Second)
		assert.Equal(t, 1.0, c.Refresh().Progress)
	})

	t.Run("idle is a no-op", func(t *testing.T) {
		c, _ := newFake(t)
		c.AddOneMinute()
		assert.Zero(t, c.Snapshot().Total)
	})
}

func TestCountdown_Stop(t *testing.T) {
	c, fc := newFake(t)
	gen := c.Start(time.Minute)
	fc.Advance(45 * time.Second)
	c.Refresh()

	c.Stop()
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Zero(t, snap.Progress)
	assert.NotEqual(t, gen, c.Generation())

	fc.Advance(time.Minute)
	assert.Zero(t, c.Refresh().Progress)
}

func TestCountdown_NeverExceedsOne(t *testing.T) {
	c, fc := newFake(t)
	c.Start(time.Minute)
	fc.Advance(10 * time.Minute)

	snap := c.Refresh()
	assert.Equal(t, 1.0, snap.Progress)
	assert.Equal(t, 1.0, snap.Animated)
	assert.Equal(t, StateRunning, snap.State, "countdown does not terminate itself")
}

func TestCountdown_AnimatedProgress(t *testing.T) {
	fc := clockwork.NewFakeClockAt(epoch)
	c := New(Options{Clock: fc, TickInterval: time.Second, AnimationLead: 6 * time.Second})
	t.Cleanup(c.Stop)
	c.Start(60 * time.Second)

	fc.Advance(24 * time.Second)
	snap := c.Refresh()
	assert.InDelta(t, 0.4, snap.Animated, 1e-9, "no lead before halfway")

	fc.Advance(12 * time.Second)
	snap = c.Refresh()
	assert.InDelta(t, 0.7, snap.Animated, 1e-9)

	fc.Advance(21 * time.Second)
	assert.Equal(t, 1.0, c.Refresh().Animated)
}

func TestCountdown_TickCallback(t *testing.T) {
	c, fc := newFake(t)

	ticks := make(chan Snapshot, 8)
	c.OnTick(func(s Snapshot) { ticks <- s })
	gen := c.Start(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	fc.Advance(time.Second)
	select {
	case s := <-ticks:
		assert.Equal(t, gen, s.Generation)
		assert.InDelta(t, 0.1, s.Progress, 1e-9)
	case <-ctx.Done():
		t.Fatal("no tick delivered")
	}
}

func TestCountdown_NoTickAfterStop(t *testing.T) {
	c, fc := newFake(t)

	var calls atomic.Int32
	c.OnTick(func(Snapshot) { calls.Add(1) })
	c.Start(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	c.Stop()
	fc.Advance(5 * time.Second)
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, calls.Load())
}

func TestCountdown_RestartCancelsPrevious(t *testing.T) {
	c, _ := newFake(t)
	first := c.Start(time.Minute)
	second := c.Start(2 * time.Minute)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2*time.Minute, c.Snapshot().Total)
}
