package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/coordinator"
)

type notesModel struct {
	coord  *coordinator.Coordinator
	width  int
	height int

	area textarea.Model
}

func newNotesModel(c *coordinator.Coordinator) notesModel {
	ta := textarea.New()
	ta.Placeholder = "Notes for the day..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(c.CurrentDay().Notes)
	return notesModel{coord: c, area: ta}
}

func (m *notesModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.area.SetWidth(max(w-8, 10))
	m.area.SetHeight(max(h-6, 3))
}

func (m notesModel) editing() bool { return m.area.Focused() }

// reload replaces the editor contents with the displayed day's notes.
func (m *notesModel) reload() {
	m.area.Blur()
	m.area.SetValue(m.coord.CurrentDay().Notes)
}

func (m notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if m.area.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.area.Blur()
			return m, errStatus(m.coord.FlushNotes())
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		m.coord.SetNotes(m.area.Value())
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Enter), keyMsg.String() == "i":
		cmd := m.area.Focus()
		return m, cmd
	case key.Matches(keyMsg, keys.Copy):
		return m, copyNotes(m.area.Value())
	}
	return m, nil
}

func copyNotes(text string) tea.Cmd {
	if text == "" {
		return infoStatus("No notes to copy")
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: fmt.Sprintf("Copy failed: %v", err), isError: true}
		}
		return statusMsg{text: "Notes copied"}
	}
}

func (m notesModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Notes")
	state := mutedStyle.Render("enter: edit  y: copy")
	if m.area.Focused() {
		state = highlightStyle.Render("editing") + mutedStyle.Render("  esc: done")
	}
	if m.coord.NotesDirty() {
		state += warningStyle.Render("  • unsaved")
	}

	panel := panelStyle
	if m.area.Focused() {
		panel = activePanelStyle
	}
	return panel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", state),
			"",
			m.area.View(),
		),
	)
}
