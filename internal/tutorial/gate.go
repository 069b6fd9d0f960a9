// Package tutorial implements the untimed practice loop that unlocks the session.
package tutorial

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/trial"
)

// State is the gate lifecycle state.
type State int

const (
	Idle State = iota
	Practicing
	Complete
)

// RetryPolicy decides what follows an incorrect practice answer.
type RetryPolicy int

const (
	// RetryKeep keeps showing the same symbol until it is answered correctly.
	RetryKeep RetryPolicy = iota
	// RetryAdvance draws a new symbol after every answer.
	RetryAdvance
)

// ParseRetryPolicy maps a config value to a policy.
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return RetryKeep, nil
	case "advance":
		return RetryAdvance, nil
	default:
		return RetryKeep, fmt.Errorf("unknown tutorial retry policy %q (want keep or advance)", s)
	}
}

func (p RetryPolicy) String() string {
	if p == RetryAdvance {
		return "advance"
	}
	return "keep"
}

// ErrAlreadyBegun is returned by Begin once practice has started.
var ErrAlreadyBegun = errors.New("tutorial already begun")

// DefaultRequired is the number of correct answers needed to finish practice.
const DefaultRequired = 10

// Options configures a Gate.
type Options struct {
	Required int
	Retry    RetryPolicy
	Now      func() time.Time
}

// Handoff is passed from the finished tutorial to the timed session.
type Handoff struct {
	Player      model.Player
	CompletedAt time.Time
}

// Outcome describes the effect of one practice submission.
type Outcome struct {
	Verdict   trial.Verdict
	Accepted  bool
	Completed bool
	Handoff   *Handoff
}

// Gate runs practice trials until the correctness quota is met.
type Gate struct {
	key      symbols.Key
	subset   []symbols.Symbol
	seq      *trial.Sequencer
	required int
	retry    RetryPolicy
	now      func() time.Time

	state   State
	player  model.Player
	correct int
	trial   trial.Trial
}

// New builds a gate over the practice subset.
func New(key symbols.Key, subset []symbols.Symbol, seq *trial.Sequencer, opts Options) (*Gate, error) {
	if err := trial.ValidateSubset(key, subset); err != nil {
		return nil, err
	}
	if opts.Required <= 0 {
		opts.Required = DefaultRequired
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Gate{
		key:      key,
		subset:   append([]symbols.Symbol(nil), subset...),
		seq:      seq,
		required: opts.Required,
		retry:    opts.Retry,
		now:      opts.Now,
	}, nil
}

// Begin starts practice for a player and draws the first symbol.
func (g *Gate) Begin(player model.Player) (trial.Trial, error) {
	if g.state != Idle {
		return trial.Trial{}, ErrAlreadyBegun
	}
	first, err := g.seq.First(g.subset)
	if err != nil {
		return trial.Trial{}, err
	}
	g.player = player
	g.trial = first
	g.state = Practicing
	return first, nil
}

// Submit evaluates a practice answer.
func (g *Gate) Submit(digit int) (Outcome, error) {
	if g.state != Practicing {
		return Outcome{}, nil
	}
	v, err := trial.Evaluate(g.key, g.trial, digit)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Verdict: v, Accepted: true}
	if v.Correct {
		g.correct++
		if g.correct >= g.required {
			g.state = Complete
			out.Completed = true
			out.Handoff = &Handoff{Player: g.player, CompletedAt: g.now()}
			return out, nil
		}
	}
	if v.Correct || g.retry == RetryAdvance {
		next, err := g.seq.Advance(g.subset, g.trial)
		if err != nil {
			return out, err
		}
		g.trial = next
	}
	return out, nil
}

// Trial returns the symbol being practiced.
func (g *Gate) Trial() trial.Trial {
	return g.trial
}

// Hint returns the expected digit for the current practice symbol.
func (g *Gate) Hint() (int, error) {
	return g.key.DigitFor(g.trial.Current)
}

// Progress returns correct answers so far and the quota.
func (g *Gate) Progress() (int, int) {
	return g.correct, g.required
}

// State returns the gate state.
func (g *Gate) State() State {
	return g.state
}

// Retry returns the configured retry policy.
func (g *Gate) Retry() RetryPolicy {
	return g.retry
}
