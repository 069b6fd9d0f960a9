package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/symdigit/internal/game"
	"github.com/verte-zerg/symdigit/internal/symbols"
)

func (m *Model) viewRegistration() string {
	lines := []string{
		titleStyle.Render(m.printer.T("app.title")),
		mutedStyle.Render(m.printer.T("register.title")),
		"",
		textStyle.Render(m.printer.T("register.name")),
		m.nameInput.View(),
		"",
		textStyle.Render(m.printer.T("register.company")),
		m.companyInput.View(),
	}
	if m.regError != "" {
		lines = append(lines, "", incorrectStyle.Render(m.regError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewTutorial() string {
	gate := m.machine.Tutorial()
	if gate == nil {
		return ""
	}
	done, required := gate.Progress()
	lines := []string{
		titleStyle.Render(m.printer.T("tutorial.welcome", m.machine.Player().Name)),
		"",
		m.renderKey(),
		"",
		m.renderSymbol(gate.Trial().Current),
		m.renderFeedback(),
	}
	if m.hint != "" {
		lines = append(lines, mutedStyle.Render(m.hint))
	}
	lines = append(lines, mutedStyle.Render(m.printer.T("tutorial.progress", done, required)))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewBriefing() string {
	seconds := int(m.machine.Settings().Duration.Seconds())
	lines := []string{
		titleStyle.Render(m.printer.T("briefing.title")),
		"",
		textStyle.Width(m.textWidth()).Render(m.printer.T("briefing.body", seconds)),
	}
	if m.hasHistory {
		lines = append(lines, "", mutedStyle.Render(m.printer.T("briefing.history", m.lastScore, m.bestScore)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewSession() string {
	engine := m.machine.Session()
	if engine == nil {
		return ""
	}
	lines := []string{
		mutedStyle.Render(m.printer.T("session.remaining", m.tick.RemainingWhole)),
		m.bar.ViewAs(m.tick.Progress),
		"",
		m.renderKey(),
		"",
		textStyle.Render(m.printer.T("session.prompt")),
		m.renderSymbol(engine.Trial().Current),
		m.renderFeedback(),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewEnded() string {
	lines := []string{
		titleStyle.Render(m.printer.T("ended.thanks")),
	}
	if rec, ok := m.machine.Result(); ok {
		lines = append(lines, "", textStyle.Render(m.printer.T("ended.summary", rec.Score, rec.Correct, rec.Total, rec.Accuracy)))
	}
	if m.saveErr {
		lines = append(lines, "", incorrectStyle.Render(m.printer.T("ended.save_failed")))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderSymbol(sym symbols.Symbol) string {
	return symbolStyle.Render(m.machine.Key().Glyph(sym))
}

func (m *Model) renderFeedback() string {
	if m.feedback == "" {
		return ""
	}
	if m.feedbackOK {
		return correctStyle.Render(m.feedback)
	}
	return incorrectStyle.Render(m.feedback)
}

func (m *Model) renderFooter() string {
	var footer string
	switch m.machine.Phase() {
	case game.PhaseRegistration:
		footer = m.printer.T("register.submit")
	case game.PhaseTutorial:
		footer = m.printer.T("tutorial.help")
	case game.PhaseBriefing:
		footer = m.printer.T("briefing.start")
	case game.PhaseSession:
		engine := m.machine.Session()
		if engine == nil {
			return ""
		}
		st := engine.State()
		footer = m.printer.T("session.stats", st.Score, st.Accuracy(), st.Streak)
	case game.PhaseEnded:
		footer = m.printer.T("ended.help")
	}
	return footerStyle.Render(footer)
}

func (m *Model) textWidth() int {
	if w := m.contentWidth(); w > 0 && w < 72 {
		return w
	}
	return 72
}
