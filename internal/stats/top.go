// Package stats contains result statistics and reporting.
package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/symdigit/internal/model"
)

// Standing is one player's best result.
type Standing struct {
	Name     string
	Company  string
	Score    int
	Accuracy int
	Sessions int
}

// TopPlayers returns the top N players by best score.
// Players are grouped by case-insensitive name and company.
func TopPlayers(records []model.ResultRecord, n int) []Standing {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	byPlayer := map[string]*Standing{}
	order := []string{}
	for _, r := range records {
		id := strings.ToLower(strings.TrimSpace(r.Name)) + "\x00" + strings.ToLower(strings.TrimSpace(r.Company))
		st, ok := byPlayer[id]
		if !ok {
			st = &Standing{Name: r.Name, Company: r.Company, Score: r.Score, Accuracy: r.Accuracy}
			byPlayer[id] = st
			order = append(order, id)
		} else if r.Score > st.Score {
			st.Score = r.Score
			st.Accuracy = r.Accuracy
		}
		st.Sessions++
	}
	items := make([]Standing, 0, len(order))
	for _, id := range order {
		items = append(items, *byPlayer[id])
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].Name < items[j].Name
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
