package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/coordinator"
	"github.com/sadopc/focusbits/internal/session"
)

// activityModel drives the countdown panel shown above every view.
type activityModel struct {
	coord *coordinator.Coordinator
	width int
}

func newActivityModel(c *coordinator.Coordinator) activityModel {
	return activityModel{coord: c}
}

func (m *activityModel) setSize(w int) { m.width = w }

// modal reports whether the panel is waiting on an answer and should take
// keys before anything else.
func (m activityModel) modal() bool {
	if _, ok := m.coord.Offer(); ok {
		return true
	}
	return m.coord.Session().Status == session.StatusExpired
}

// handleKey applies session keys. handled is false when the key is not a
// session key and should be routed on.
func (m activityModel) handleKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	if name, ok := m.coord.Offer(); ok {
		switch {
		case key.Matches(msg, keys.Accept):
			return true, errStatus(m.coord.AcceptOffer())
		case key.Matches(msg, keys.Decline):
			m.coord.DeclineOffer()
			return true, infoStatus(fmt.Sprintf("Passed on %q", name))
		}
		return true, nil
	}

	st := m.coord.Session()
	if st.Status == session.StatusExpired {
		switch {
		case key.Matches(msg, keys.Done):
			return true, errStatus(m.coord.ResolveComplete())
		case key.Matches(msg, keys.MoreTime):
			return true, errStatus(m.coord.ResolveMoreTime())
		case key.Matches(msg, keys.Skip):
			return true, errStatus(m.coord.ResolveSkip())
		case key.Matches(msg, keys.Stop):
			return true, errStatus(m.coord.StopSession())
		}
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Assign):
		if st.Active() {
			return true, infoStatus("Already working on something")
		}
		_, err := m.coord.OfferTask()
		if errors.Is(err, session.ErrEmptyBacklog) {
			return true, infoStatus("Nothing up next. Add a task first.")
		}
		return true, errStatus(err)
	case key.Matches(msg, keys.Break):
		if st.Active() {
			return true, infoStatus("Finish or stop the current session first")
		}
		return true, errStatus(m.coord.StartBreak())
	case key.Matches(msg, keys.AddTime):
		if !st.Active() {
			return true, nil
		}
		err := m.coord.AddTime(m.coord.Increment())
		if err != nil {
			return true, errStatus(err)
		}
		return true, infoStatus(fmt.Sprintf("Added %d min", int(m.coord.Increment().Minutes())))
	case key.Matches(msg, keys.Pause):
		if !st.Active() {
			return true, nil
		}
		m.coord.PauseSession()
		return true, infoStatus("Pausing is not supported; the clock keeps running")
	case key.Matches(msg, keys.Stop):
		if !st.Active() {
			return true, nil
		}
		return true, errStatus(m.coord.StopSession())
	}
	return false, nil
}

func (m activityModel) view() string {
	w := max(m.width-4, 20)

	if name, ok := m.coord.Offer(); ok {
		q := fmt.Sprintf("How about: %s?", name)
		hint := mutedStyle.Render("y: start it  n: pick later")
		return promptStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, q, hint))
	}

	st := m.coord.Session()
	switch st.Status {
	case session.StatusExpired:
		hint := mutedStyle.Render("d: done  m: more time  s: skip")
		return promptStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Center, m.coord.ExpiryPrompt(), hint),
		)

	case session.StatusRunning:
		clock := taskClockStyle
		if st.Kind == session.KindBreak {
			clock = breakClockStyle
		}
		label := highlightStyle.Render(m.coord.ActivityLabel())
		content := lipgloss.JoinVertical(lipgloss.Center,
			clock.Width(w-4).Render(formatCountdown(st.Remaining)),
			label,
			mutedStyle.Render("+: add time  x: stop"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		idleClockStyle.Width(w-4).Render("--:--"),
		mutedStyle.Render("s: pick a task  b: take a break"),
	)
	return panelStyle.Width(w).Render(content)
}

// footerIndicator is the compact countdown shown in the footer.
func (m activityModel) footerIndicator() string {
	st := m.coord.Session()
	switch st.Status {
	case session.StatusRunning:
		if st.Kind == session.KindBreak {
			return successStyle.Render(" ☕ " + formatCountdown(st.Remaining))
		}
		return highlightStyle.Render(" ● " + formatCountdown(st.Remaining))
	case session.StatusExpired:
		return warningStyle.Render(" ⏰ time's up")
	}
	return ""
}
