// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/symdigit/internal/clock"
	"github.com/verte-zerg/symdigit/internal/game"
	"github.com/verte-zerg/symdigit/internal/i18n"
	"github.com/verte-zerg/symdigit/internal/model"
)

const (
	wholeInterval  = time.Second
	smoothInterval = 50 * time.Millisecond
)

// Recorder persists finished sessions and reads earlier ones.
type Recorder interface {
	Append(ctx context.Context, rec model.ResultRecord) (model.ResultRecord, error)
	List(ctx context.Context, f model.ResultFilter) ([]model.ResultRecord, error)
}

// Ticks carry the session generation they were scheduled for.
type wholeTickMsg struct{ gen int }

type smoothTickMsg struct{ gen int }

const (
	focusName = iota
	focusCompany
)

// Model implements the Bubble Tea game UI.
type Model struct {
	machine  *game.Machine
	recorder Recorder
	printer  *i18n.Printer
	logger   *zap.Logger

	width  int
	height int

	nameInput    textinput.Model
	companyInput textinput.Model
	focus        int
	regError     string

	feedback   string
	feedbackOK bool
	hint       string

	bar      progress.Model
	tick     clock.Tick
	gen      int
	recorded bool
	saveErr  bool

	lastScore  int
	bestScore  int
	hasHistory bool
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	symbolStyle    = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A"))
	keyTitleStyle  = mutedStyle.Copy().Underline(true)
	keyGlyphStyle  = textStyle.Copy().Bold(true)
	keyDigitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	keyBoxStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#6E6E6E")).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the game model. A non-empty player name registers
// immediately and opens the tutorial.
func NewModel(machine *game.Machine, recorder Recorder, printer *i18n.Printer, logger *zap.Logger, player model.Player) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		machine:  machine,
		recorder: recorder,
		printer:  printer,
		logger:   logger,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.resetInputs()
	m.nameInput.SetValue(player.Name)
	m.companyInput.SetValue(player.Company)
	if strings.TrimSpace(player.Name) != "" {
		m.register()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.contentWidth()
		return m, nil
	case wholeTickMsg:
		return m, m.onWholeTick(msg)
	case smoothTickMsg:
		return m, m.onSmoothTick(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.machine.Phase() {
		case game.PhaseRegistration:
			return m, m.updateRegistration(msg)
		case game.PhaseTutorial:
			return m, m.updateTutorial(msg)
		case game.PhaseBriefing:
			return m, m.updateBriefing(msg)
		case game.PhaseSession:
			return m, m.updateSession(msg)
		case game.PhaseEnded:
			return m, m.updateEnded(msg)
		}
		return m, nil
	default:
		if m.machine.Phase() == game.PhaseRegistration {
			return m, m.updateInputs(msg)
		}
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.machine.Phase() {
	case game.PhaseRegistration:
		content = m.viewRegistration()
	case game.PhaseTutorial:
		content = m.viewTutorial()
	case game.PhaseBriefing:
		content = m.viewBriefing()
	case game.PhaseSession:
		content = m.viewSession()
	case game.PhaseEnded:
		content = m.viewEnded()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) updateRegistration(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.toggleFocus()
		return textinput.Blink
	case tea.KeyEnter:
		m.register()
		return nil
	}
	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.companyInput, cmd = m.companyInput.Update(msg)
	}
	return cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusName {
		m.focus = focusCompany
		m.nameInput.Blur()
		m.companyInput.Focus()
		return
	}
	m.focus = focusName
	m.companyInput.Blur()
	m.nameInput.Focus()
}

func (m *Model) register() {
	err := m.machine.Register(model.Player{Name: m.nameInput.Value(), Company: m.companyInput.Value()})
	if errors.Is(err, game.ErrNameRequired) {
		m.regError = m.printer.T("register.name_required")
		return
	}
	if err != nil {
		m.logger.Error("failed to register player", zap.Error(err))
		m.regError = err.Error()
		return
	}
	m.regError = ""
	m.clearFeedback()
	p := m.machine.Player()
	m.logger.Info("player registered", zap.String("name", p.Name), zap.String("company", p.Company))
}

func (m *Model) updateTutorial(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		return tea.Quit
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] == '?' {
		m.showHint()
		return nil
	}
	if digit, ok := digitKey(msg); ok && m.activeDigit(digit) {
		return m.submit(digit)
	}
	return nil
}

func (m *Model) showHint() {
	gate := m.machine.Tutorial()
	if gate == nil {
		return
	}
	digit, err := gate.Hint()
	if err != nil {
		m.logger.Warn("failed to compute hint", zap.Error(err))
		return
	}
	m.hint = m.printer.T("tutorial.hint", digit)
}

func (m *Model) updateBriefing(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter, tea.KeySpace:
		prev := m.machine.Phase()
		if err := m.machine.Begin(); err != nil {
			m.logger.Error("failed to start session", zap.Error(err))
			return nil
		}
		return m.afterTransition(prev)
	}
	return nil
}

func (m *Model) updateSession(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		return tea.Quit
	}
	if digit, ok := digitKey(msg); ok && m.activeDigit(digit) {
		return m.submit(digit)
	}
	return nil
}

func (m *Model) updateEnded(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nil
		}
		switch msg.Runes[0] {
		case 'n', 'N':
			m.reset()
			return textinput.Blink
		case 'q', 'Q':
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) submit(digit int) tea.Cmd {
	prev := m.machine.Phase()
	fb, err := m.machine.Submit(digit)
	if err != nil {
		m.logger.Warn("submission rejected", zap.Int("digit", digit), zap.Error(err))
		return nil
	}
	m.hint = ""
	if fb.Accepted {
		m.feedbackOK = fb.Verdict.Correct
		if fb.Verdict.Correct {
			m.feedback = m.printer.T("verdict.correct")
		} else {
			m.feedback = m.printer.T("verdict.incorrect")
		}
	}
	return m.afterTransition(prev)
}

func (m *Model) afterTransition(prev game.Phase) tea.Cmd {
	cur := m.machine.Phase()
	if cur == prev {
		return nil
	}
	m.logger.Debug("phase changed", zap.Stringer("from", prev), zap.Stringer("to", cur))
	switch cur {
	case game.PhaseBriefing:
		m.clearFeedback()
		m.loadHistory()
	case game.PhaseSession:
		return m.startTicks()
	case game.PhaseEnded:
		m.tick = m.machine.TickSmooth()
		m.record()
	}
	return nil
}

func (m *Model) startTicks() tea.Cmd {
	m.gen++
	m.clearFeedback()
	m.tick = m.machine.TickSmooth()
	return tea.Batch(wholeTick(m.gen), smoothTick(m.gen))
}

func wholeTick(gen int) tea.Cmd {
	return tea.Tick(wholeInterval, func(time.Time) tea.Msg {
		return wholeTickMsg{gen: gen}
	})
}

func smoothTick(gen int) tea.Cmd {
	return tea.Tick(smoothInterval, func(time.Time) tea.Msg {
		return smoothTickMsg{gen: gen}
	})
}

func (m *Model) onWholeTick(msg wholeTickMsg) tea.Cmd {
	if msg.gen != m.gen || m.machine.Phase() != game.PhaseSession {
		return nil
	}
	m.tick = m.machine.TickWhole()
	if m.machine.Phase() != game.PhaseSession {
		m.record()
		return nil
	}
	return wholeTick(m.gen)
}

func (m *Model) onSmoothTick(msg smoothTickMsg) tea.Cmd {
	if msg.gen != m.gen || m.machine.Phase() != game.PhaseSession {
		return nil
	}
	m.tick = m.machine.TickSmooth()
	if m.machine.Phase() != game.PhaseSession {
		m.record()
		return nil
	}
	return smoothTick(m.gen)
}

func (m *Model) record() {
	if m.recorded {
		return
	}
	rec, ok := m.machine.Result()
	if !ok {
		return
	}
	m.recorded = true
	if m.recorder == nil {
		return
	}
	if _, err := m.recorder.Append(context.Background(), rec); err != nil {
		m.saveErr = true
		m.logger.Error("failed to save result", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	m.logger.Info("result saved",
		zap.String("id", rec.ID),
		zap.String("name", rec.Name),
		zap.Int("score", rec.Score),
		zap.Int("correct", rec.Correct),
		zap.Int("total", rec.Total),
	)
}

func (m *Model) loadHistory() {
	m.hasHistory = false
	if m.recorder == nil {
		return
	}
	p := m.machine.Player()
	records, err := m.recorder.List(context.Background(), model.ResultFilter{Name: p.Name, Company: p.Company})
	if err != nil {
		m.logger.Error("failed to load result history", zap.Error(err))
		return
	}
	m.lastScore, m.bestScore = 0, 0
	for _, r := range records {
		if !strings.EqualFold(r.Name, p.Name) || !strings.EqualFold(r.Company, p.Company) {
			continue
		}
		m.lastScore = r.Score
		if !m.hasHistory || r.Score > m.bestScore {
			m.bestScore = r.Score
		}
		m.hasHistory = true
	}
}

func (m *Model) reset() {
	m.machine.Reset()
	m.gen++
	m.recorded = false
	m.saveErr = false
	m.hasHistory = false
	m.tick = clock.Tick{}
	m.regError = ""
	m.clearFeedback()
	m.resetInputs()
}

func (m *Model) resetInputs() {
	m.nameInput = textinput.New()
	m.nameInput.Placeholder = m.printer.T("register.name")
	m.nameInput.CharLimit = 64
	m.nameInput.Focus()
	m.companyInput = textinput.New()
	m.companyInput.Placeholder = m.printer.T("register.company")
	m.companyInput.CharLimit = 64
	m.focus = focusName
}

func (m *Model) clearFeedback() {
	m.feedback = ""
	m.feedbackOK = false
	m.hint = ""
}

func digitKey(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// activeDigit reports whether some symbol of the current phase's subset maps
// to d. Other digits are ignored rather than scored as misses.
func (m *Model) activeDigit(d int) bool {
	variant := m.machine.Settings().Variant
	n := variant.PlaySubset
	if m.machine.Phase() == game.PhaseTutorial {
		n = variant.PracticeSubset
	}
	for _, digit := range m.machine.Key().Digits(n) {
		if digit == d {
			return true
		}
	}
	return false
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}
