package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "results.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		end := time.Unix(0, 0).Add(time.Duration(i) * time.Hour)
		rec := model.ResultRecord{
			Name:            "Ada",
			Company:         "Acme",
			Score:           100 * (i + 1),
			Accuracy:        80 + i,
			DurationSeconds: 60,
			Total:           20,
			Correct:         16 + i,
			BestStreak:      5 + i,
			Variant:         "classic",
			StartedAt:       end.Add(-time.Minute),
			EndedAt:         end,
		}
		if _, err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.ResultFilter{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Summary.BestScore != 300 || report.Summary.AvgScore != 250 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.OverallAccuracy() != 88 {
		t.Fatalf("expected pooled accuracy 88, got %d", report.Summary.OverallAccuracy())
	}
	if len(report.Top) != 1 || report.Top[0].Sessions != 2 {
		t.Fatalf("unexpected leaderboard: %+v", report.Top)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, 5, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No results found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	records := []model.ResultRecord{
		{Score: 100, Accuracy: 80, BestStreak: 4},
		{Score: 200, Accuracy: 90, BestStreak: 6},
	}
	if err := RenderSummary(&buf, records, 1, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Avg Score: 150.0", "Best Score: 200", "Avg Accuracy: 85.0%", "Best Streak: 6 (worth 75)", "Score trend: [ @]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSparklineAndMovingAverage(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "===" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	avg := MovingAverage([]float64{2, 4, 6}, 2)
	if avg[0] != 2 || avg[1] != 3 || avg[2] != 5 {
		t.Fatalf("unexpected moving average %v", avg)
	}
}
