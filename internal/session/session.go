package session

import (
	"errors"
	"math/rand/v2"
	"time"
)

// DefaultIncrement is the time put on the clock by a start, add-time or
// more-time action.
const DefaultIncrement = 15 * time.Minute

var (
	ErrAlreadyActive   = errors.New("a session is already active")
	ErrNoActiveSession = errors.New("no active session")
	ErrEmptyBacklog    = errors.New("no pending tasks to pick from")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Kind says what the session is timing.
type Kind int

const (
	KindTask Kind = iota
	KindBreak
)

func (k Kind) String() string {
	if k == KindBreak {
		return "break"
	}
	return "task"
}

// Status is the session state machine position.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusExpired
)

var statusNames = map[Status]string{
	StatusIdle:    "IDLE",
	StatusRunning: "RUNNING",
	StatusExpired: "EXPIRED",
}

func (s Status) String() string { return statusNames[s] }

// Outcome describes how a session ended.
type Outcome struct {
	Kind  Kind
	Label string
	// Result is one of "completed", "skipped" or "stopped".
	Result string
}

// State is a read-only snapshot of a session.
type State struct {
	Kind      Kind
	Label     string
	Remaining int // seconds
	Status    Status
}

// Active reports whether a session is running or waiting on resolution.
func (s State) Active() bool { return s.Status != StatusIdle }

// Session is the countdown for the current task or break. The zero value is
// an idle session. It is not safe for concurrent use; callers drive it from a
// single event loop.
type Session struct {
	kind      Kind
	label     string
	remaining int
	status    Status
}

func New() *Session { return &Session{} }

func (s *Session) State() State {
	return State{Kind: s.kind, Label: s.label, Remaining: s.remaining, Status: s.status}
}

func (s *Session) Status() Status { return s.status }
func (s *Session) Remaining() int { return s.remaining }
func (s *Session) Label() string  { return s.label }
func (s *Session) Kind() Kind     { return s.kind }

// Start begins a countdown of seconds. label is ignored for breaks.
func (s *Session) Start(kind Kind, label string, seconds int) error {
	if s.status != StatusIdle {
		return ErrAlreadyActive
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	if kind == KindBreak {
		label = ""
	}
	s.kind = kind
	s.label = label
	s.remaining = seconds
	s.status = StatusRunning
	return nil
}

// Tick advances the countdown by one second. It returns true exactly once,
// on the tick that moves the session to Expired.
func (s *Session) Tick() bool {
	if s.status != StatusRunning {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.status = StatusExpired
		return true
	}
	return false
}

// AddTime extends a running or expired session. An expired session resumes.
func (s *Session) AddTime(seconds int) error {
	if s.status == StatusIdle {
		return ErrNoActiveSession
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	s.remaining += seconds
	s.status = StatusRunning
	return nil
}

// ResolveComplete ends the session as done. For a task the caller moves the
// returned label from pending to completed.
func (s *Session) ResolveComplete() (Outcome, error) {
	return s.finish("completed")
}

// ResolveSkip ends the session leaving the task pending.
func (s *Session) ResolveSkip() (Outcome, error) {
	return s.finish("skipped")
}

// Stop ends the session on explicit user request.
func (s *Session) Stop() (Outcome, error) {
	return s.finish("stopped")
}

// ResolveMoreTime restarts the same activity with a fresh countdown of
// seconds. Whatever remained is discarded, which at expiry is zero anyway.
func (s *Session) ResolveMoreTime(seconds int) error {
	if s.status == StatusIdle {
		return ErrNoActiveSession
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	s.remaining = seconds
	s.status = StatusRunning
	return nil
}

// Pause is intentionally a no-op; the countdown can't be paused.
func (s *Session) Pause() {}

// Resume is intentionally a no-op, see Pause.
func (s *Session) Resume() {}

func (s *Session) finish(result string) (Outcome, error) {
	if s.status == StatusIdle {
		return Outcome{}, ErrNoActiveSession
	}
	out := Outcome{Kind: s.kind, Label: s.label, Result: result}
	*s = Session{}
	return out, nil
}

// Pick chooses a task uniformly at random from pending.
func Pick(pending []string, rng *rand.Rand) (string, error) {
	if len(pending) == 0 {
		return "", ErrEmptyBacklog
	}
	return pending[rng.IntN(len(pending))], nil
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
