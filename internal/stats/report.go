// Package stats contains result statistics and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/symdigit/internal/model"
)

// ResultLister lists stored results.
type ResultLister interface {
	List(ctx context.Context, f model.ResultFilter) ([]model.ResultRecord, error)
}

// Report contains precomputed data for results rendering.
type Report struct {
	Records []model.ResultRecord
	Summary Summary
	Top     []Standing
}

// DefaultTopN is how many players the leaderboard shows.
const DefaultTopN = 10

// BuildReport loads and prepares data for results rendering.
func BuildReport(ctx context.Context, st ResultLister, f model.ResultFilter) (Report, error) {
	records, err := st.List(ctx, f)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Records: records,
		Summary: Summarize(records),
		Top:     TopPlayers(records, DefaultTopN),
	}, nil
}
