package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/symdigit/internal/model"
)

func TestResultLinesAlignByColumnKind(t *testing.T) {
	cols := []resultColumn{resultColumns[1], resultColumns[3], resultColumns[6]}
	records := []model.ResultRecord{
		{Name: "Ada", Score: 310, Accuracy: 97},
		{Name: "Şükrü", Score: 40, Accuracy: 8},
	}

	lines := resultLines(cols, records)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name  Score Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Ada     310      97%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Şükrü    40       8%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestResultLinesWideRunes(t *testing.T) {
	cols := []resultColumn{resultColumns[1], resultColumns[3]}
	lines := resultLines(cols, []model.ResultRecord{{Name: "日本", Score: 1}})
	if lines[0] != "Name Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "日本     1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestResultLinesTruncatesText(t *testing.T) {
	cols := []resultColumn{resultColumns[2], resultColumns[3]}
	long := strings.Repeat("x", 40)
	lines := resultLines(cols, []model.ResultRecord{{Company: long, Score: 7}})
	cell := strings.Fields(lines[1])[0]
	if strings.Contains(cell, long) || !strings.HasPrefix(cell, strings.Repeat("x", 20)) || !strings.Contains(cell, "…") {
		t.Fatalf("expected truncated company, got %q", lines[1])
	}
	if w := runewidth.StringWidth(cell); w > maxTextCell {
		t.Fatalf("company cell is %d wide, want at most %d", w, maxTextCell)
	}
}

func TestRenderResultTable(t *testing.T) {
	var buf bytes.Buffer
	end := time.Date(2024, 3, 2, 10, 30, 0, 0, time.Local)
	records := []model.ResultRecord{
		{Name: "Ada", Company: "Acme", Score: 310, Correct: 25, Total: 30, Accuracy: 83, BestStreak: 9, EndedAt: end},
	}
	if err := RenderResultTable(&buf, records); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2024-03-02 10:30 Ada") {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "83%      9") {
		t.Fatalf("unexpected row tail %q", lines[1])
	}
}
