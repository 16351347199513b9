package store

import "time"

// Focus session outcomes as stored in focus_sessions.outcome.
const (
	OutcomeRunning   = "running"
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeStopped   = "stopped"
)

type FocusSession struct {
	ID             string
	Day            string // YYYY-MM-DD
	Kind           string // task, break
	Label          string
	PlannedSeconds int64
	Outcome        string
	StartedAt      time.Time
	EndedAt        *time.Time
}

// Duration returns wall time spent, or zero while the session is open.
func (f FocusSession) Duration() time.Duration {
	if f.EndedAt == nil {
		return 0
	}
	return f.EndedAt.Sub(f.StartedAt)
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter focus sessions in queries.
type SessionFilter struct {
	From  string // inclusive day key
	To    string // exclusive day key
	Kind  string
	Limit int
}

// DailyFocus is the aggregated focus time of one kind on one day.
type DailyFocus struct {
	Day          string
	Kind         string
	TotalSeconds int64
	Sessions     int
	Completed    int
}
