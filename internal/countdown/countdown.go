// Package countdown implements a drift-corrected countdown timer.
//
// Elapsed time is derived from absolute start and end instants read from a
// clock on every tick, so late or jittery ticks never accumulate error.
package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultAnimationLead = time.Second
)

// State is the lifecycle of a countdown.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Options configures a Countdown.
type Options struct {
	Clock         clockwork.Clock
	TickInterval  time.Duration
	AnimationLead time.Duration
}

// Snapshot is the countdown's output at one instant.
type Snapshot struct {
	Generation uint64
	State      State
	Total      time.Duration
	Remaining  time.Duration
	Progress   float64
	Animated   float64
}

// Countdown tracks progress through one interval. At most one ticker
// goroutine is active per Countdown.
type Countdown struct {
	clock    clockwork.Clock
	interval time.Duration
	lead     time.Duration

	mu        sync.Mutex
	onTick    func(Snapshot)
	state     State
	total     time.Duration
	start     time.Time
	end       time.Time
	remaining time.Duration
	progress  float64
	gen       uint64
	done      chan struct{}
}

// New creates an idle countdown.
func New(opts Options) *Countdown {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.AnimationLead < 0 {
		opts.AnimationLead = 0
	} else if opts.AnimationLead == 0 {
		opts.AnimationLead = DefaultAnimationLead
	}
	return &Countdown{
		clock:    opts.Clock,
		interval: opts.TickInterval,
		lead:     opts.AnimationLead,
	}
}

// OnTick registers the callback invoked after every periodic recomputation.
// The callback runs on the ticker goroutine without the countdown lock held.
func (c *Countdown) OnTick(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

// Start begins a countdown of d from now, replacing any prior one.
// It returns the new generation.
func (c *Countdown) Start(d time.Duration) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.total = d
	c.start = now
	c.end = now.Add(d)
	c.remaining = d
	c.progress = 0
	c.state = StateRunning
	c.spawnLocked()
	return c.gen
}

// Pause freezes remaining time and progress.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return
	}
	c.recomputeLocked()
	c.cancelLocked()
	c.state = StatePaused
}

// Resume continues a paused countdown with the frozen remaining time.
func (c *Countdown) Resume() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return c.gen
	}
	c.end = c.clock.Now().Add(c.remaining)
	c.state = StateRunning
	c.spawnLocked()
	return c.gen
}

// AddOneMinute extends the interval by a minute. Progress is recomputed
// against the larger total, so it can move backwards.
func (c *Countdown) AddOneMinute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateRunning:
		c.end = c.end.Add(time.Minute)
		c.total += time.Minute
		c.recomputeLocked()
	case StatePaused:
		c.remaining += time.Minute
		c.total += time.Minute
		c.progress = progressOf(c.remaining, c.total)
	}
}

// Stop halts the countdown and resets progress to zero.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.state = StateIdle
	c.total = 0
	c.remaining = 0
	c.progress = 0
}

// Refresh recomputes progress from the clock and returns the result.
func (c *Countdown) Refresh() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recomputeLocked()
	return c.snapshotLocked()
}

// Snapshot returns the last computed output without reading the clock.
func (c *Countdown) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Progress returns raw progress in [0, 1].
func (c *Countdown) Progress() float64 {
	return c.Snapshot().Progress
}

// AnimatedProgress returns progress shifted ahead by the animation lead
// once past halfway, so a rendered bar visually reaches the end on time.
func (c *Countdown) AnimatedProgress() float64 {
	return c.Snapshot().Animated
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	return c.Snapshot().Remaining
}

// Generation identifies the current run. Every Start, Resume and Stop
// invalidates the previous generation.
func (c *Countdown) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Countdown) recomputeLocked() {
	if c.state != StateRunning {
		return
	}
	rem := c.end.Sub(c.clock.Now())
	if rem < 0 {
		rem = 0
	}
	c.remaining = rem
	c.progress = progressOf(rem, c.total)
}

func (c *Countdown) snapshotLocked() Snapshot {
	return Snapshot{
		Generation: c.gen,
		State:      c.state,
		Total:      c.total,
		Remaining:  c.remaining,
		Progress:   c.progress,
		Animated:   c.animatedLocked(),
	}
}

func (c *Countdown) animatedLocked() float64 {
	if c.progress < 0.5 || c.total <= 0 {
		return c.progress
	}
	p := c.progress + float64(c.lead)/float64(c.total)
	if p > 1 {
		return 1
	}
	return p
}

func progressOf(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	p := 1 - float64(remaining)/float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// cancelLocked stops the active ticker goroutine, if any, and invalidates
// its generation. It does not wait for the goroutine to exit.
func (c *Countdown) cancelLocked() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	c.gen++
}

func (c *Countdown) spawnLocked() {
	c.cancelLocked()
	done := make(chan struct{})
	c.done = done
	ticker := c.clock.NewTicker(c.interval)
	go c.run(c.gen, ticker, done)
}

func (c *Countdown) run(gen uint64, ticker clockwork.Ticker, done <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			c.mu.Lock()
			if c.gen != gen || c.state != StateRunning {
				c.mu.Unlock()
				return
			}
			c.recomputeLocked()
			snap := c.snapshotLocked()
			fn := c.onTick
			c.mu.Unlock()

			if fn != nil {
				fn(snap)
			}
		}
	}
}
