// Package tui provides the Bubble Tea game interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/symdigit/internal/symbols"
)

const keyCellPadding = 2

type keyCell struct {
	glyph string
	digit string
}

func buildKeyCells(key symbols.Key) ([]keyCell, int) {
	entries := key.Entries()
	cells := make([]keyCell, 0, len(entries))
	width := 1
	for _, e := range entries {
		cells = append(cells, keyCell{glyph: e.Glyph, digit: string(rune('0' + e.Digit))})
		if w := runewidth.StringWidth(e.Glyph); w > width {
			width = w
		}
	}
	return cells, width + keyCellPadding
}

// wrapKeyCells splits cells into rows that fit within width. A row always
// holds at least one cell.
func wrapKeyCells(cells []keyCell, cellWidth, width int) [][]keyCell {
	if len(cells) == 0 {
		return nil
	}
	perRow := len(cells)
	if width > 0 {
		perRow = width / cellWidth
		if perRow < 1 {
			perRow = 1
		}
	}
	rows := make([][]keyCell, 0, (len(cells)+perRow-1)/perRow)
	for start := 0; start < len(cells); start += perRow {
		end := start + perRow
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[start:end])
	}
	return rows
}

func centerCell(value string, width int) string {
	w := runewidth.StringWidth(value)
	if w >= width {
		return value
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + value + strings.Repeat(" ", width-w-left)
}

// renderKeyLines returns two text lines per row: glyphs above their digits.
func renderKeyLines(key symbols.Key, width int) []string {
	cells, cellWidth := buildKeyCells(key)
	rows := wrapKeyCells(cells, cellWidth, width)
	lines := make([]string, 0, len(rows)*2)
	for _, row := range rows {
		var glyphs, digits strings.Builder
		for _, c := range row {
			glyphs.WriteString(centerCell(c.glyph, cellWidth))
			digits.WriteString(centerCell(c.digit, cellWidth))
		}
		lines = append(lines, glyphs.String(), digits.String())
	}
	return lines
}

func (m *Model) renderKey() string {
	lines := renderKeyLines(m.machine.Key(), m.contentWidth())
	styled := make([]string, 0, len(lines)+1)
	styled = append(styled, keyTitleStyle.Render(m.printer.T("key.title")))
	for i, line := range lines {
		if i%2 == 0 {
			styled = append(styled, keyGlyphStyle.Render(line))
		} else {
			styled = append(styled, keyDigitStyle.Render(line))
		}
	}
	return keyBoxStyle.Render(strings.Join(styled, "\n"))
}
