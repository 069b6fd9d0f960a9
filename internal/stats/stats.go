// Package stats contains result statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/session"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of results.
type Summary struct {
	Sessions     int
	AvgScore     float64
	BestScore    int
	AvgAccuracy  float64
	TotalCorrect int
	TotalAnswers int
	BestStreak   int
}

// Summarize computes aggregate metrics for results.
func Summarize(records []model.ResultRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}
	var scoreSum, accSum float64
	for _, r := range records {
		scoreSum += float64(r.Score)
		accSum += float64(r.Accuracy)
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		if r.BestStreak > s.BestStreak {
			s.BestStreak = r.BestStreak
		}
		s.TotalCorrect += r.Correct
		s.TotalAnswers += r.Total
	}
	s.Sessions = len(records)
	s.AvgScore = scoreSum / float64(len(records))
	s.AvgAccuracy = accSum / float64(len(records))
	return s
}

// OverallAccuracy is the pooled accuracy over all answers.
func (s Summary) OverallAccuracy() int {
	return session.Accuracy(s.TotalCorrect, s.TotalAnswers)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// ScoreCurve returns the smoothed score series, trimmed to the last width points.
func ScoreCurve(records []model.ResultRecord, window, width int) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = float64(r.Score)
	}
	values = MovingAverage(values, window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	return values
}

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, records []model.ResultRecord, window, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg Score: %.1f", s.AvgScore),
		fmt.Sprintf("Best Score: %d", s.BestScore),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Best Streak: %d (worth %d)", s.BestStreak, session.StreakScore(s.BestStreak)),
	}
	if len(records) > 1 {
		lines = append(lines, fmt.Sprintf("Score trend: [%s]", Sparkline(ScoreCurve(records, window, width))))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderResultTable prints one row per result.
func RenderResultTable(w io.Writer, records []model.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, line := range resultLines(resultColumns, records) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
