package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/symdigit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleRecord(name, company string, score int, endedAt time.Time) model.ResultRecord {
	return model.ResultRecord{
		Name:            name,
		Company:         company,
		Score:           score,
		Accuracy:        83,
		DurationSeconds: 60,
		Total:           30,
		Correct:         25,
		BestStreak:      9,
		Variant:         "classic",
		StartedAt:       endedAt.Add(-60 * time.Second),
		EndedAt:         endedAt,
	}
}

func TestAppendAndListRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	saved, err := st.Append(ctx, sampleRecord("Ada", "Acme", 310, base))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := st.List(ctx, model.ResultFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if diff := cmp.Diff(saved, got[0]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestListFiltersAndLast(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	entries := []model.ResultRecord{
		sampleRecord("Ada", "Acme", 100, base),
		sampleRecord("Bob", "Globex", 200, base.Add(time.Hour)),
		sampleRecord("Ada", "Globex", 300, base.Add(2*time.Hour)),
	}
	for _, rec := range entries {
		if _, err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byName, err := st.List(ctx, model.ResultFilter{Name: "Ada"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byName) != 2 || byName[0].Score != 100 || byName[1].Score != 300 {
		t.Fatalf("unexpected name filter result: %+v", byName)
	}

	byCompany, err := st.List(ctx, model.ResultFilter{Company: "Globex"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCompany) != 2 {
		t.Fatalf("expected 2 Globex results, got %d", len(byCompany))
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.List(ctx, model.ResultFilter{Since: &since, Last: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 1 || recent[0].Score != 300 {
		t.Fatalf("unexpected since/last result: %+v", recent)
	}

	n, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 records, got %d", n)
	}
}

func TestReopenKeepsLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.Append(context.Background(), sampleRecord("Ada", "", 10, time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st2.Close()
	}()
	n, err := st2.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", n)
	}
}

func TestListSinceWithinSameSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	for _, rec := range []model.ResultRecord{
		sampleRecord("Ada", "Acme", 1, base.Add(-500*time.Millisecond)),
		sampleRecord("Ada", "Acme", 2, base),
		sampleRecord("Ada", "Acme", 3, base.Add(500*time.Millisecond)),
		sampleRecord("Ada", "Acme", 4, base.Add(time.Second+time.Nanosecond)),
	} {
		if _, err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	since := base
	got, err := st.List(ctx, model.ResultFilter{Since: &since})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var scores []int
	for _, r := range got {
		scores = append(scores, r.Score)
	}
	if diff := cmp.Diff([]int{2, 3, 4}, scores); diff != "" {
		t.Fatalf("since filter mismatch (-want +got):\n%s", diff)
	}
	if !got[1].EndedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Fatalf("ended_at lost precision: %v", got[1].EndedAt)
	}
}

func TestFormatTimeIsFixedWidth(t *testing.T) {
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	whole := formatTime(base)
	half := formatTime(base.Add(500 * time.Millisecond))
	if len(whole) != len(half) {
		t.Fatalf("widths differ: %q vs %q", whole, half)
	}
	if whole != "2024-02-01T08:00:00.000000000Z" {
		t.Fatalf("unexpected layout %q", whole)
	}
	if !(whole < half) {
		t.Fatalf("expected %q to sort before %q", whole, half)
	}
}
