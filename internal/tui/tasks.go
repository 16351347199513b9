package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/coordinator"
)

type taskPane int

const (
	panePending taskPane = iota
	paneDone
)

type tasksModel struct {
	coord  *coordinator.Coordinator
	width  int
	height int

	pane       taskPane
	cursor     int
	doneCursor int

	adding bool
	input  textinput.Model

	formActive bool
	form       *huh.Form
	editText   *string // survives value copies
	editName   string
}

func newTasksModel(c *coordinator.Coordinator) tasksModel {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	text := ""
	return tasksModel{
		coord:    c,
		input:    ti,
		editText: &text,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(w-12, 10)
}

// capturing reports whether the model wants every key, including globals.
func (m tasksModel) capturing() bool {
	return m.adding || m.formActive
}

// reset is called after the displayed day changes.
func (m *tasksModel) reset() {
	m.cursor = 0
	m.doneCursor = 0
	m.adding = false
	m.input.Blur()
	m.formActive = false
	m.form = nil
}

// clamp keeps both cursors inside their lists.
func (m *tasksModel) clamp() {
	rec := m.coord.CurrentDay()
	m.cursor = clampCursor(m.cursor, len(rec.Pending))
	m.doneCursor = clampCursor(m.doneCursor, len(rec.Completed))
}

func (m tasksModel) selectedPending() (string, bool) {
	pending := m.coord.CurrentDay().Pending
	if m.cursor < 0 || m.cursor >= len(pending) {
		return "", false
	}
	return pending[m.cursor], true
}

func (m tasksModel) selectedDone() (string, bool) {
	done := m.coord.CurrentDay().SortedCompleted()
	if m.doneCursor < 0 || m.doneCursor >= len(done) {
		return "", false
	}
	return done[m.doneCursor], true
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}
	if m.adding {
		return m.updateInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.New):
		m.adding = true
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(keyMsg, keys.Pane):
		if m.pane == panePending {
			m.pane = paneDone
		} else {
			m.pane = panePending
		}
		return m, nil
	case key.Matches(keyMsg, keys.Copy):
		return m, m.copyDone()
	}

	if m.pane == paneDone {
		return m.updateDone(keyMsg)
	}
	return m.updatePending(keyMsg)
}

func (m tasksModel) updatePending(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	n := len(m.coord.CurrentDay().Pending)
	switch {
	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		if n == 0 {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, keys.MoveUp) {
			delta = -1
		}
		to, err := m.coord.MovePending(m.cursor, delta)
		m.cursor = to
		return m, errStatus(err)
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Complete):
		name, ok := m.selectedPending()
		if !ok {
			return m, nil
		}
		err := m.coord.CompleteTask(name)
		m.clamp()
		return m, errStatus(err)
	case key.Matches(msg, keys.Delete):
		name, ok := m.selectedPending()
		if !ok {
			return m, nil
		}
		err := m.coord.DeleteTask(name)
		m.clamp()
		return m, errStatus(err)
	}
	return m, nil
}

func (m tasksModel) updateDone(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	n := len(m.coord.CurrentDay().Completed)
	switch {
	case key.Matches(msg, keys.Up):
		if m.doneCursor > 0 {
			m.doneCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.doneCursor < n-1 {
			m.doneCursor++
		}
	case key.Matches(msg, keys.Delete):
		name, ok := m.selectedDone()
		if !ok {
			return m, nil
		}
		err := m.coord.RemoveCompletedTask(name)
		m.clamp()
		return m, errStatus(err)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if name, ok := m.selectedDone(); ok {
			return m.showEditForm(name)
		}
	}
	return m, nil
}

func (m tasksModel) updateInput(msg tea.Msg) (tasksModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.adding = false
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			name := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.Blur()
			m.input.SetValue("")
			if name == "" {
				return m, nil
			}
			if err := m.coord.AddTask(name); err != nil {
				return m, errStatus(err)
			}
			m.cursor = len(m.coord.CurrentDay().Pending) - 1
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tasksModel) showEditForm(name string) (tasksModel, tea.Cmd) {
	*m.editText = name
	m.editName = name
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rename done task").
				Value(m.editText).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is empty")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		idx := slices.Index(m.coord.CurrentDay().Completed, m.editName)
		if idx < 0 {
			return m, infoStatus(fmt.Sprintf("%q is no longer done", m.editName))
		}
		return m, errStatus(m.coord.EditCompletedTaskText(idx, *m.editText))
	}
	return m, cmd
}

func (m tasksModel) copyDone() tea.Cmd {
	done := m.coord.CurrentDay().SortedCompleted()
	if len(done) == 0 {
		return infoStatus("Nothing done yet")
	}
	text := strings.Join(done, "\n")
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: fmt.Sprintf("Copy failed: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Copied %d done tasks", len(done))}
	}
}

func (m tasksModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(m.form.View())
	}

	rec := m.coord.CurrentDay()
	inFlight, _ := m.coord.InFlight()

	half := max((w-2)/2, 20)
	pending := m.renderPending(rec.Pending, inFlight, half)
	done := m.renderDone(rec.SortedCompleted(), half)
	lists := lipgloss.JoinHorizontal(lipgloss.Top, pending, done)

	if m.adding {
		input := activePanelStyle.Width(w).Render("New task: " + m.input.View())
		return lipgloss.JoinVertical(lipgloss.Left, lists, input)
	}
	return lists
}

func (m tasksModel) renderPending(pending []string, inFlight string, w int) string {
	title := titleStyle.Render(fmt.Sprintf("Up next (%d)", len(pending)))
	rows := []string{title}
	if len(pending) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing queued. Press a to add a task."))
	}
	for i, name := range pending {
		cursor := "  "
		style := normalItemStyle
		if m.pane == panePending && i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := ""
		if inFlight != "" && name == inFlight {
			style = inFlightItemStyle
			marker = " ●"
		}
		rows = append(rows, style.Render(cursor+name+marker))
	}

	panel := panelStyle
	if m.pane == panePending {
		panel = activePanelStyle
	}
	return panel.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderDone(done []string, w int) string {
	title := titleStyle.Render(fmt.Sprintf("Done today (%d)", len(done)))
	rows := []string{title}
	if len(done) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing done yet"))
	}
	for i, name := range done {
		cursor := "  "
		style := doneItemStyle
		if m.pane == paneDone && i == m.doneCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+"✓ "+name))
	}

	panel := panelStyle
	if m.pane == paneDone {
		panel = activePanelStyle
	}
	return panel.Width(w).Render(strings.Join(rows, "\n"))
}
