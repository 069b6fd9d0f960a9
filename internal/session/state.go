// Package session holds the timed session: scoring state and the engine that drives it.
package session

import (
	"math"

	"github.com/verte-zerg/symdigit/internal/trial"
)

// BaseReward is the score for a correct answer with no streak.
const BaseReward = 10

// State is the running tally of a timed session.
type State struct {
	Score      int
	Correct    int
	Total      int
	Streak     int
	BestStreak int
}

// Apply returns the state after one accepted verdict.
// A correct answer earns BaseReward plus the streak before it is incremented.
func (s State) Apply(v trial.Verdict) State {
	s.Total++
	if !v.Correct {
		s.Streak = 0
		return s
	}
	s.Correct++
	s.Score += BaseReward + s.Streak
	s.Streak++
	if s.Streak > s.BestStreak {
		s.BestStreak = s.Streak
	}
	return s
}

// Accuracy returns the rounded percentage of correct answers.
func (s State) Accuracy() int {
	return Accuracy(s.Correct, s.Total)
}

// Accuracy returns round(100*correct/total), or 0 when total is 0.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// StreakScore is the total earned by k consecutive correct answers from a zero streak.
func StreakScore(k int) int {
	if k <= 0 {
		return 0
	}
	return BaseReward*k + k*(k-1)/2
}
