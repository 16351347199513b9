package coordinator

import "github.com/sadopc/focusbits/internal/session"

type EventKind int

const (
	DayChanged EventKind = iota
	TasksChanged
	SessionChanged
	// SessionExpired needs a decision: complete, more time or skip.
	SessionExpired
)

var eventNames = map[EventKind]string{
	DayChanged:     "day_changed",
	TasksChanged:   "tasks_changed",
	SessionChanged: "session_changed",
	SessionExpired: "session_expired",
}

func (k EventKind) String() string { return eventNames[k] }

type Event struct {
	Kind    EventKind
	Date    string // displayed day key
	Session session.State
}
