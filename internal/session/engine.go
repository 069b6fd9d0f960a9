package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/symdigit/internal/clock"
	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/trial"
)

// Hooks receives engine events. Nil fields are skipped.
type Hooks struct {
	TrialChanged    func(trial.Trial)
	VerdictProduced func(trial.Verdict)
	Tick            func(clock.Tick)
	SessionEnded    func(model.ResultRecord)
}

// Options configures an Engine.
type Options struct {
	Variant string
	Now     func() time.Time
	Hooks   Hooks
}

// Engine runs one timed session.
type Engine struct {
	key     symbols.Key
	subset  []symbols.Symbol
	seq     *trial.Sequencer
	clock   *clock.Countdown
	player  model.Player
	variant string
	now     func() time.Time
	hooks   Hooks

	state  State
	trial  trial.Trial
	result *model.ResultRecord
}

// NewEngine builds an engine over a countdown of the given limit.
// The countdown shares the engine's time source.
func NewEngine(key symbols.Key, subset []symbols.Symbol, seq *trial.Sequencer, limit time.Duration, player model.Player, opts Options) (*Engine, error) {
	if err := trial.ValidateSubset(key, subset); err != nil {
		return nil, err
	}
	e := &Engine{
		key:     key,
		subset:  append([]symbols.Symbol(nil), subset...),
		seq:     seq,
		player:  player,
		variant: opts.Variant,
		now:     opts.Now,
		hooks:   opts.Hooks,
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.clock = clock.New(limit, clock.WithNow(e.now), clock.WithOnExpire(e.finish))
	return e, nil
}

// Start starts the countdown and shows the first symbol.
func (e *Engine) Start() (trial.Trial, error) {
	first, err := e.seq.First(e.subset)
	if err != nil {
		return trial.Trial{}, err
	}
	if err := e.clock.Start(); err != nil {
		return trial.Trial{}, fmt.Errorf("failed to start session: %w", err)
	}
	e.trial = first
	e.emitTrial()
	return e.trial, nil
}

// Submit scores a digit. It reports false when the session is not running,
// so input before start or after expiry has no effect.
func (e *Engine) Submit(digit int) (trial.Verdict, bool, error) {
	if e.clock.Poll().State != clock.Running {
		return trial.Verdict{}, false, nil
	}
	v, err := trial.Evaluate(e.key, e.trial, digit)
	if err != nil {
		return trial.Verdict{}, false, err
	}
	e.state = e.state.Apply(v)
	if e.hooks.VerdictProduced != nil {
		e.hooks.VerdictProduced(v)
	}
	next, err := e.seq.Advance(e.subset, e.trial)
	if err != nil {
		return v, true, err
	}
	e.trial = next
	e.emitTrial()
	return v, true, nil
}

// TickWhole forwards the 1-second cadence to the countdown.
func (e *Engine) TickWhole() clock.Tick {
	return e.emitTick(e.clock.TickWhole())
}

// TickSmooth forwards the display cadence to the countdown.
func (e *Engine) TickSmooth() clock.Tick {
	return e.emitTick(e.clock.TickSmooth())
}

// Clock returns a snapshot of the countdown.
func (e *Engine) Clock() clock.Tick {
	return e.clock.Snapshot()
}

// State returns the current tally.
func (e *Engine) State() State {
	return e.state
}

// Trial returns the trial being shown.
func (e *Engine) Trial() trial.Trial {
	return e.trial
}

// Ended reports whether the countdown has expired.
func (e *Engine) Ended() bool {
	return e.clock.State() == clock.Expired
}

// Result returns the frozen record once the session has ended.
func (e *Engine) Result() (model.ResultRecord, bool) {
	if e.result == nil {
		return model.ResultRecord{}, false
	}
	return *e.result, true
}

func (e *Engine) emitTrial() {
	if e.hooks.TrialChanged != nil {
		e.hooks.TrialChanged(e.trial)
	}
}

func (e *Engine) emitTick(t clock.Tick) clock.Tick {
	if e.hooks.Tick != nil {
		e.hooks.Tick(t)
	}
	return t
}

// finish is the countdown's expiry callback; the countdown guarantees a single call.
func (e *Engine) finish() {
	rec := model.ResultRecord{
		ID:              uuid.NewString(),
		Name:            e.player.Name,
		Company:         e.player.Company,
		Score:           e.state.Score,
		Accuracy:        e.state.Accuracy(),
		DurationSeconds: int(e.clock.Limit().Round(time.Second).Seconds()),
		Total:           e.state.Total,
		Correct:         e.state.Correct,
		BestStreak:      e.state.BestStreak,
		Variant:         e.variant,
		StartedAt:       e.clock.StartedAt(),
		EndedAt:         e.now(),
	}
	e.result = &rec
	if e.hooks.SessionEnded != nil {
		e.hooks.SessionEnded(rec)
	}
}
