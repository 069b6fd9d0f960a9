// Package model defines shared data structures.
package model

import "time"

// Config defines game settings after flags, env and file are merged.
type Config struct {
	Variant          string
	DurationSeconds  int
	TutorialRequired int
	TutorialRetry    string
	AutoStart        bool
	Lang             string
	KeyFile          string
}

// Player identifies the person taking the test.
type Player struct {
	Name    string
	Company string
}

// ResultFilter defines filters for listing stored results.
type ResultFilter struct {
	Name    string
	Company string
	Since   *time.Time
	Last    int
}

// ResultRecord captures a completed timed session.
type ResultRecord struct {
	ID              string    `yaml:"id"`
	Name            string    `yaml:"name"`
	Company         string    `yaml:"company"`
	Score           int       `yaml:"score"`
	Accuracy        int       `yaml:"accuracy"`
	DurationSeconds int       `yaml:"durationSeconds"`
	Total           int       `yaml:"total"`
	Correct         int       `yaml:"correct"`
	BestStreak      int       `yaml:"bestStreak"`
	Variant         string    `yaml:"variant"`
	StartedAt       time.Time `yaml:"startedAt"`
	EndedAt         time.Time `yaml:"endedAt"`
}
