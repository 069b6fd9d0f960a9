// Package clock provides the session countdown.
//
// A Countdown moves NotStarted -> Running -> Expired. It is driven by two
// external cadences, a coarse whole-second tick and a fine display tick, and
// both read the same elapsed time so they cannot drift apart. Expiry happens
// once no matter which cadence observes it first.
package clock

import (
	"errors"
	"math"
	"time"
)

// ErrAlreadyStarted is returned by Start on a running or expired countdown.
var ErrAlreadyStarted = errors.New("countdown already started")

// State is the countdown lifecycle state.
type State int

const (
	NotStarted State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Tick is a snapshot of the countdown.
type Tick struct {
	Remaining      time.Duration
	RemainingWhole int
	Progress       float64
	State          State
	JustExpired    bool
}

// Countdown tracks remaining session time against a single time source.
type Countdown struct {
	limit     time.Duration
	now       func() time.Time
	onExpire  func()
	state     State
	startedAt time.Time
	whole     int
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithNow sets the time source. It defaults to time.Now.
func WithNow(now func() time.Time) Option {
	return func(c *Countdown) {
		c.now = now
	}
}

// WithOnExpire registers the end-of-session callback.
func WithOnExpire(fn func()) Option {
	return func(c *Countdown) {
		c.onExpire = fn
	}
}

// New returns a countdown for the given limit.
func New(limit time.Duration, opts ...Option) *Countdown {
	c := &Countdown{
		limit: limit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.whole = wholeSeconds(limit)
	return c
}

// Limit returns the configured time limit.
func (c *Countdown) Limit() time.Duration {
	return c.limit
}

// State returns the current state.
func (c *Countdown) State() State {
	return c.state
}

// StartedAt returns when Start was called.
func (c *Countdown) StartedAt() time.Time {
	return c.startedAt
}

// Start records the start time and begins running.
func (c *Countdown) Start() error {
	if c.state != NotStarted {
		return ErrAlreadyStarted
	}
	c.startedAt = c.now()
	c.state = Running
	if c.limit <= 0 {
		c.expire()
	}
	return nil
}

// TickWhole handles the 1-second cadence and updates the integer countdown.
func (c *Countdown) TickWhole() Tick {
	if c.state != Running {
		return c.snapshot(false)
	}
	c.whole = wholeSeconds(c.remaining())
	if c.whole <= 0 {
		return c.snapshot(c.expire())
	}
	return c.snapshot(false)
}

// TickSmooth handles the display cadence.
func (c *Countdown) TickSmooth() Tick {
	if c.state != Running {
		return c.snapshot(false)
	}
	if c.remaining() <= 0 {
		return c.snapshot(c.expire())
	}
	return c.snapshot(false)
}

// Poll checks for expiry outside the regular cadences, e.g. before accepting input.
func (c *Countdown) Poll() Tick {
	return c.TickSmooth()
}

// Snapshot reports the current values without changing state.
func (c *Countdown) Snapshot() Tick {
	return c.snapshot(false)
}

func (c *Countdown) snapshot(justExpired bool) Tick {
	t := Tick{State: c.state, JustExpired: justExpired}
	switch c.state {
	case NotStarted:
		t.Remaining = c.limit
		t.RemainingWhole = wholeSeconds(c.limit)
	case Running:
		t.Remaining = c.remaining()
		t.RemainingWhole = c.whole
	case Expired:
		t.Remaining = 0
		t.RemainingWhole = 0
	}
	if c.limit > 0 {
		t.Progress = float64(t.Remaining) / float64(c.limit)
	}
	return t
}

func (c *Countdown) remaining() time.Duration {
	r := c.limit - c.now().Sub(c.startedAt)
	if r < 0 {
		return 0
	}
	return r
}

// expire reports whether this call performed the transition.
func (c *Countdown) expire() bool {
	if c.state == Expired {
		return false
	}
	c.state = Expired
	c.whole = 0
	if c.onExpire != nil {
		c.onExpire()
	}
	return true
}

func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
