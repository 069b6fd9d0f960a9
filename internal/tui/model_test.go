package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/symdigit/internal/game"
	"github.com/verte-zerg/symdigit/internal/i18n"
	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/trial"
	"github.com/verte-zerg/symdigit/internal/tutorial"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

type memRecorder struct {
	records   []model.ResultRecord
	appendErr error
}

func (r *memRecorder) Append(_ context.Context, rec model.ResultRecord) (model.ResultRecord, error) {
	if r.appendErr != nil {
		return model.ResultRecord{}, r.appendErr
	}
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *memRecorder) List(_ context.Context, _ model.ResultFilter) ([]model.ResultRecord, error) {
	return append([]model.ResultRecord(nil), r.records...), nil
}

func newTestModel(t *testing.T, rec *memRecorder, player model.Player) (*Model, *fakeClock) {
	t.Helper()
	v, err := symbols.LookupVariant("classic")
	require.NoError(t, err)
	key, err := v.Key()
	require.NoError(t, err)
	fc := &fakeClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	seed := int64(0)
	machine, err := game.NewMachine(key, game.Settings{
		Variant:          v,
		Duration:         v.Duration,
		TutorialRequired: 10,
		TutorialRetry:    tutorial.RetryKeep,
	},
		game.WithNow(fc.Now),
		game.WithSequencer(func() *trial.Sequencer {
			seed++
			return trial.NewWithSource(rand.NewSource(seed))
		}),
	)
	require.NoError(t, err)
	cat, err := i18n.Load()
	require.NoError(t, err)
	return NewModel(machine, rec, cat.Printer("en"), zap.NewNop(), player), fc
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func expectedDigit(t *testing.T, m *Model) int {
	t.Helper()
	var sym symbols.Symbol
	switch m.machine.Phase() {
	case game.PhaseTutorial:
		sym = m.machine.Tutorial().Trial().Current
	case game.PhaseSession:
		sym = m.machine.Session().Trial().Current
	default:
		t.Fatalf("no trial in phase %s", m.machine.Phase())
	}
	d, err := m.machine.Key().DigitFor(sym)
	require.NoError(t, err)
	return d
}

// wrongDigit returns a mapped digit that does not answer the current trial.
func wrongDigit(t *testing.T, m *Model) int {
	t.Helper()
	want := expectedDigit(t, m)
	for _, d := range m.machine.Key().Digits(m.machine.Key().Len()) {
		if d != want {
			return d
		}
	}
	t.Fatal("key maps a single digit")
	return 0
}

func typeDigit(m *Model, d int) tea.Cmd {
	return press(m, keyRunes(string(rune('0'+d))))
}

func completeTutorial(t *testing.T, m *Model) {
	t.Helper()
	for i := 0; i < 10; i++ {
		typeDigit(m, expectedDigit(t, m))
	}
	require.Equal(t, game.PhaseBriefing, m.machine.Phase())
}

func TestRegistrationRequiresName(t *testing.T) {
	m, _ := newTestModel(t, &memRecorder{}, model.Player{})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, game.PhaseRegistration, m.machine.Phase())
	assert.Contains(t, m.View(), "Please enter your name.")

	press(m, keyRunes("Ada"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, keyRunes("Acme"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, game.PhaseTutorial, m.machine.Phase())
	assert.Equal(t, model.Player{Name: "Ada", Company: "Acme"}, m.machine.Player())
	assert.Contains(t, m.View(), "Welcome to the practice round, Ada")
	assert.Contains(t, m.View(), "Progress: 0/10")
}

func TestTutorialFeedbackAndHint(t *testing.T) {
	m, _ := newTestModel(t, &memRecorder{}, model.Player{Name: "Ada"})
	require.Equal(t, game.PhaseTutorial, m.machine.Phase())

	press(m, keyRunes("?"))
	want := expectedDigit(t, m)
	assert.Equal(t, "Hint: "+string(rune('0'+want)), m.hint)

	typeDigit(m, wrongDigit(t, m))
	assert.Equal(t, "Wrong", m.feedback)
	assert.False(t, m.feedbackOK)
	assert.Empty(t, m.hint)

	typeDigit(m, expectedDigit(t, m))
	assert.Equal(t, "Correct", m.feedback)
	assert.Contains(t, m.View(), "Progress: 1/10")
}

func TestUnmappedDigitsAreIgnored(t *testing.T) {
	m, _ := newTestModel(t, &memRecorder{}, model.Player{Name: "Ada"})
	require.Equal(t, game.PhaseTutorial, m.machine.Phase())
	current := m.machine.Tutorial().Trial()

	// Classic maps only 1 to 7.
	for _, d := range []int{0, 8, 9} {
		assert.False(t, m.activeDigit(d), "digit %d", d)
		assert.Nil(t, typeDigit(m, d))
	}
	count, _ := m.machine.Tutorial().Progress()
	assert.Equal(t, 0, count)
	assert.Equal(t, current, m.machine.Tutorial().Trial())

	completeTutorial(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, game.PhaseSession, m.machine.Phase())

	typeDigit(m, expectedDigit(t, m))
	typeDigit(m, expectedDigit(t, m))
	before := m.machine.Session().State()
	require.Equal(t, 2, before.Total)
	require.Equal(t, 2, before.Streak)

	typeDigit(m, 9)
	after := m.machine.Session().State()
	assert.Equal(t, 2, after.Total)
	assert.Equal(t, 2, after.Streak)
	assert.Equal(t, before, after)

	typeDigit(m, wrongDigit(t, m))
	assert.Equal(t, 3, m.machine.Session().State().Total)
	assert.Equal(t, 0, m.machine.Session().State().Streak)
}

func TestBriefingShowsHistory(t *testing.T) {
	rec := &memRecorder{records: []model.ResultRecord{
		{Name: "Ada", Company: "Acme", Score: 100},
		{Name: "Ada", Company: "Acme", Score: 250},
		{Name: "Adam", Company: "Acme", Score: 999},
		{Name: "ada", Company: "acme", Score: 120},
	}}
	m, _ := newTestModel(t, rec, model.Player{Name: "Ada", Company: "Acme"})
	completeTutorial(t, m)
	assert.True(t, m.hasHistory)
	assert.Contains(t, m.View(), "Last 120 · Best 250")
	assert.Contains(t, m.View(), "You have 60 seconds.")
}

func TestSessionRecordsResultOnce(t *testing.T) {
	rec := &memRecorder{}
	m, fc := newTestModel(t, rec, model.Player{Name: "Ada", Company: "Acme"})
	completeTutorial(t, m)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, game.PhaseSession, m.machine.Phase())
	assert.Equal(t, 1, m.gen)

	typeDigit(m, expectedDigit(t, m))
	assert.Contains(t, m.renderFooter(), "Score 10 · Accuracy 100% · Streak 1")

	fc.t = fc.t.Add(30 * time.Second)
	assert.NotNil(t, press(m, wholeTickMsg{gen: 1}))
	assert.Equal(t, 30, m.tick.RemainingWhole)

	fc.t = fc.t.Add(30 * time.Second)
	assert.Nil(t, press(m, wholeTickMsg{gen: 1}))
	assert.Equal(t, game.PhaseEnded, m.machine.Phase())
	require.Len(t, rec.records, 1)
	assert.Equal(t, 10, rec.records[0].Score)
	assert.Equal(t, "Acme", rec.records[0].Company)

	assert.Nil(t, press(m, smoothTickMsg{gen: 1}))
	typeDigit(m, 1)
	assert.Len(t, rec.records, 1)
	assert.Contains(t, m.View(), "You have completed the learning speed test. Thank you.")
	assert.Contains(t, m.View(), "Score 10 · Correct 1/1 · Accuracy 100%")
}

func TestStaleTicksAreDropped(t *testing.T) {
	rec := &memRecorder{}
	m, fc := newTestModel(t, rec, model.Player{Name: "Ada"})
	completeTutorial(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, game.PhaseSession, m.machine.Phase())

	fc.t = fc.t.Add(61 * time.Second)
	assert.Nil(t, press(m, wholeTickMsg{gen: 0}))
	assert.Nil(t, press(m, smoothTickMsg{gen: 7}))
	assert.Equal(t, game.PhaseSession, m.machine.Phase())
	assert.Empty(t, rec.records)

	assert.Nil(t, press(m, smoothTickMsg{gen: 1}))
	assert.Equal(t, game.PhaseEnded, m.machine.Phase())
	require.Len(t, rec.records, 1)

	press(m, keyRunes("n"))
	assert.Equal(t, game.PhaseRegistration, m.machine.Phase())
	assert.Equal(t, 2, m.gen)
	assert.Nil(t, press(m, wholeTickMsg{gen: 1}))
	assert.Equal(t, "", m.nameInput.Value())
}

func TestSaveFailureIsShown(t *testing.T) {
	rec := &memRecorder{appendErr: errors.New("disk full")}
	m, fc := newTestModel(t, rec, model.Player{Name: "Ada"})
	completeTutorial(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	fc.t = fc.t.Add(60 * time.Second)
	press(m, smoothTickMsg{gen: 1})
	require.Equal(t, game.PhaseEnded, m.machine.Phase())
	assert.True(t, m.saveErr)
	assert.Contains(t, m.View(), "Result could not be saved.")
}

func TestDigitKey(t *testing.T) {
	d, ok := digitKey(keyRunes("7"))
	assert.True(t, ok)
	assert.Equal(t, 7, d)
	_, ok = digitKey(keyRunes("x"))
	assert.False(t, ok)
	_, ok = digitKey(keyRunes("12"))
	assert.False(t, ok)
}

func TestViewPlacesFooter(t *testing.T) {
	m, _ := newTestModel(t, &memRecorder{}, model.Player{Name: "Ada"})
	press(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, lines[len(lines)-1], "?: hint")
}
