package repository

import "time"

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

type User struct {
	UserID    string
	Username  string
	UpdatedAt time.Time
}

// VoiceSession is one completed accounting interval. Rows are append
// only and never mutated after insert.
type VoiceSession struct {
	ID              int64
	UserID          string
	DurationSeconds int64
	Timestamp       time.Time
}

// UserStats is one row of a period leaderboard: the per-user total for
// the current calendar bucket joined to the latest known username.
type UserStats struct {
	UserID        string
	Username      string
	TotalSeconds  int64
	TotalSessions int64
}

func (s UserStats) TotalHours() float64 {
	return float64(s.TotalSeconds) / 3600
}

func (s UserStats) AvgHoursPerSession() float64 {
	if s.TotalSessions == 0 {
		return 0
	}
	return s.TotalHours() / float64(s.TotalSessions)
}
