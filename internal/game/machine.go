// Package game sequences registration, tutorial, briefing, timed session and end.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/symdigit/internal/clock"
	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/session"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/trial"
	"github.com/verte-zerg/symdigit/internal/tutorial"
)

var (
	// ErrNameRequired is returned when registering without a player name.
	ErrNameRequired = errors.New("player name is required")
	// ErrInvalidTransition is returned when an event does not apply to the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Phase is a step of the game flow.
type Phase int

const (
	PhaseRegistration Phase = iota
	PhaseTutorial
	PhaseBriefing
	PhaseSession
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRegistration:
		return "registration"
	case PhaseTutorial:
		return "tutorial"
	case PhaseBriefing:
		return "briefing"
	case PhaseSession:
		return "session"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Settings is the resolved game configuration.
type Settings struct {
	Variant          symbols.Variant
	Duration         time.Duration
	TutorialRequired int
	TutorialRetry    tutorial.RetryPolicy
	AutoStart        bool
}

// Feedback is what a submission produced, for the UI to render.
type Feedback struct {
	Phase    Phase
	Verdict  trial.Verdict
	Accepted bool
	// Advanced is set when the submission moved the game to another phase.
	Advanced bool
}

// Machine is the explicit state machine over the whole game.
type Machine struct {
	key      symbols.Key
	settings Settings
	newSeq   func() *trial.Sequencer
	now      func() time.Time
	onEnd    func(model.ResultRecord)

	phase   Phase
	player  model.Player
	gate    *tutorial.Gate
	handoff *tutorial.Handoff
	engine  *session.Engine
	result  *model.ResultRecord
}

// Option configures a Machine.
type Option func(*Machine)

// WithNow sets the time source shared by the tutorial and the countdown.
func WithNow(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithSequencer sets the factory for trial sequencers.
func WithSequencer(fn func() *trial.Sequencer) Option {
	return func(m *Machine) {
		m.newSeq = fn
	}
}

// WithOnEnd registers a callback that receives each result record once.
func WithOnEnd(fn func(model.ResultRecord)) Option {
	return func(m *Machine) {
		m.onEnd = fn
	}
}

// NewMachine builds a machine in the registration phase. The key is shared by
// every tutorial and session the machine creates.
func NewMachine(key symbols.Key, settings Settings, opts ...Option) (*Machine, error) {
	if _, err := key.Subset(settings.Variant.PlaySubset); err != nil {
		return nil, fmt.Errorf("invalid play subset: %w", err)
	}
	if _, err := key.Subset(settings.Variant.PracticeSubset); err != nil {
		return nil, fmt.Errorf("invalid practice subset: %w", err)
	}
	m := &Machine{
		key:      key,
		settings: settings,
		newSeq:   trial.New,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Key returns the shared symbol key.
func (m *Machine) Key() symbols.Key {
	return m.key
}

// Settings returns the resolved settings.
func (m *Machine) Settings() Settings {
	return m.settings
}

// Player returns the registered player.
func (m *Machine) Player() model.Player {
	return m.player
}

// Register records the player and starts the tutorial.
func (m *Machine) Register(p model.Player) error {
	if m.phase != PhaseRegistration {
		return fmt.Errorf("%w: register during %s", ErrInvalidTransition, m.phase)
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Company = strings.TrimSpace(p.Company)
	if p.Name == "" {
		return ErrNameRequired
	}
	subset, err := m.key.Subset(m.settings.Variant.PracticeSubset)
	if err != nil {
		return err
	}
	gate, err := tutorial.New(m.key, subset, m.newSeq(), tutorial.Options{
		Required: m.settings.TutorialRequired,
		Retry:    m.settings.TutorialRetry,
		Now:      m.now,
	})
	if err != nil {
		return err
	}
	if _, err := gate.Begin(p); err != nil {
		return err
	}
	m.player = p
	m.gate = gate
	m.phase = PhaseTutorial
	return nil
}

// Begin leaves the briefing and starts the timed session.
func (m *Machine) Begin() error {
	if m.phase != PhaseBriefing {
		return fmt.Errorf("%w: begin during %s", ErrInvalidTransition, m.phase)
	}
	return m.startSession()
}

// Submit routes a digit to the tutorial or the session.
// Digits in any other phase are ignored.
func (m *Machine) Submit(digit int) (Feedback, error) {
	switch m.phase {
	case PhaseTutorial:
		out, err := m.gate.Submit(digit)
		if err != nil {
			return Feedback{Phase: m.phase}, err
		}
		fb := Feedback{Phase: PhaseTutorial, Verdict: out.Verdict, Accepted: out.Accepted}
		if out.Completed {
			if err := m.completeTutorial(*out.Handoff); err != nil {
				return fb, err
			}
			fb.Advanced = true
		}
		return fb, nil
	case PhaseSession:
		v, ok, err := m.engine.Submit(digit)
		fb := Feedback{Phase: PhaseSession, Verdict: v, Accepted: ok}
		if m.engine.Ended() {
			m.phase = PhaseEnded
			fb.Advanced = true
		}
		return fb, err
	default:
		return Feedback{Phase: m.phase}, nil
	}
}

// TickWhole forwards the 1-second cadence. It is a no-op outside the session.
func (m *Machine) TickWhole() clock.Tick {
	if m.phase != PhaseSession {
		return m.clockSnapshot()
	}
	t := m.engine.TickWhole()
	m.syncEnded()
	return t
}

// TickSmooth forwards the display cadence. It is a no-op outside the session.
func (m *Machine) TickSmooth() clock.Tick {
	if m.phase != PhaseSession {
		return m.clockSnapshot()
	}
	t := m.engine.TickSmooth()
	m.syncEnded()
	return t
}

// Tutorial returns the practice gate, or nil before registration.
func (m *Machine) Tutorial() *tutorial.Gate {
	return m.gate
}

// Session returns the timed engine, or nil before the session starts.
func (m *Machine) Session() *session.Engine {
	return m.engine
}

// Handoff returns the tutorial completion payload.
func (m *Machine) Handoff() (tutorial.Handoff, bool) {
	if m.handoff == nil {
		return tutorial.Handoff{}, false
	}
	return *m.handoff, true
}

// Result returns the record of the finished session.
func (m *Machine) Result() (model.ResultRecord, bool) {
	if m.result == nil {
		return model.ResultRecord{}, false
	}
	return *m.result, true
}

// Reset returns to registration for the next player.
func (m *Machine) Reset() {
	m.phase = PhaseRegistration
	m.player = model.Player{}
	m.gate = nil
	m.handoff = nil
	m.engine = nil
	m.result = nil
}

func (m *Machine) completeTutorial(h tutorial.Handoff) error {
	if m.phase != PhaseTutorial {
		return fmt.Errorf("%w: tutorial completion during %s", ErrInvalidTransition, m.phase)
	}
	m.handoff = &h
	if m.settings.AutoStart && !h.CompletedAt.IsZero() {
		return m.startSession()
	}
	m.phase = PhaseBriefing
	return nil
}

func (m *Machine) startSession() error {
	subset, err := m.key.Subset(m.settings.Variant.PlaySubset)
	if err != nil {
		return err
	}
	player := m.player
	if m.handoff != nil {
		player = m.handoff.Player
	}
	engine, err := session.NewEngine(m.key, subset, m.newSeq(), m.settings.Duration, player, session.Options{
		Variant: m.settings.Variant.Name,
		Now:     m.now,
		Hooks: session.Hooks{
			SessionEnded: m.sessionEnded,
		},
	})
	if err != nil {
		return err
	}
	m.engine = engine
	m.phase = PhaseSession
	if _, err := engine.Start(); err != nil {
		return err
	}
	m.syncEnded()
	return nil
}

func (m *Machine) sessionEnded(rec model.ResultRecord) {
	m.result = &rec
	if m.onEnd != nil {
		m.onEnd(rec)
	}
}

func (m *Machine) syncEnded() {
	if m.phase == PhaseSession && m.engine.Ended() {
		m.phase = PhaseEnded
	}
}

func (m *Machine) clockSnapshot() clock.Tick {
	if m.engine == nil {
		return clock.New(m.settings.Duration).Snapshot()
	}
	return m.engine.Clock()
}
