// Package stats contains result statistics and reporting.
package stats

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/symdigit/internal/model"
)

// maxTextCell is the widest a text cell renders before truncation.
const maxTextCell = 24

type columnKind int

const (
	textColumn columnKind = iota
	numericColumn
)

// resultColumn is one column of the results table.
// Numeric columns are right-aligned; text columns are left-aligned and truncated.
type resultColumn struct {
	title string
	kind  columnKind
	cell  func(model.ResultRecord) string
}

var resultColumns = []resultColumn{
	{"Date", textColumn, func(r model.ResultRecord) string { return r.EndedAt.Local().Format("2006-01-02 15:04") }},
	{"Name", textColumn, func(r model.ResultRecord) string { return r.Name }},
	{"Company", textColumn, func(r model.ResultRecord) string { return r.Company }},
	{"Score", numericColumn, func(r model.ResultRecord) string { return strconv.Itoa(r.Score) }},
	{"Correct", numericColumn, func(r model.ResultRecord) string { return strconv.Itoa(r.Correct) }},
	{"Total", numericColumn, func(r model.ResultRecord) string { return strconv.Itoa(r.Total) }},
	{"Accuracy", numericColumn, func(r model.ResultRecord) string { return strconv.Itoa(r.Accuracy) + "%" }},
	{"Streak", numericColumn, func(r model.ResultRecord) string { return strconv.Itoa(r.BestStreak) }},
}

// resultLines lays out records under cols, header first.
func resultLines(cols []resultColumn, records []model.ResultRecord) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, len(records))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for r, rec := range records {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			v := c.cell(rec)
			if c.kind == textColumn {
				v = runewidth.Truncate(v, maxTextCell, "…")
			}
			cells[r][i] = v
			if w := runewidth.StringWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(records)+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	lines = append(lines, joinCells(cols, header, widths))
	for _, row := range cells {
		lines = append(lines, joinCells(cols, row, widths))
	}
	return lines
}

func joinCells(cols []resultColumn, row []string, widths []int) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := strings.Repeat(" ", max(widths[i]-runewidth.StringWidth(v), 0))
		if cols[i].kind == numericColumn {
			b.WriteString(pad + v)
			continue
		}
		b.WriteString(v)
		if i < len(row)-1 {
			b.WriteString(pad)
		}
	}
	return b.String()
}
