package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusbits/internal/coordinator"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewNotes
	viewHistory
	viewSettings
)

var viewNames = []string{"Tasks", "Notes", "History", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// notesFlushMsg fires on the autosave interval.
type notesFlushMsg time.Time

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct {
	increment   time.Duration
	breakLength time.Duration
	notesFlush  time.Duration
}

// --- Events ---

// eventQueue collects coordinator events during one Update so the App can
// react after the call returns. It is shared by pointer across App copies.
type eventQueue struct {
	events []coordinator.Event
}

func (q *eventQueue) push(ev coordinator.Event) { q.events = append(q.events, ev) }

func (q *eventQueue) drain() []coordinator.Event {
	out := q.events
	q.events = nil
	return out
}

// --- Helpers ---

func errStatus(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

// formatCountdown renders remaining seconds as MM:SS.
func formatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(cursor, 0)
}
