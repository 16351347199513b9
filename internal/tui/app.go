package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/coordinator"
	"github.com/sadopc/focusbits/internal/export"
	"github.com/sadopc/focusbits/internal/store"
)

// App is the root Bubble Tea model. Update is the only place the
// coordinator is mutated; commands only read the store or touch the
// outside world.
type App struct {
	coord  *coordinator.Coordinator
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	activity activityModel
	tasks    tasksModel
	notes    notesModel
	history  historyModel
	settings settingsModel

	notesFlush time.Duration
	queue      *eventQueue

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(c *coordinator.Coordinator, s *store.Store, j *store.Journal, notesFlush time.Duration) App {
	h := help.New()
	h.ShowAll = false

	if notesFlush <= 0 {
		notesFlush = DefaultNotesFlush
	}
	q := &eventQueue{}
	c.Subscribe(q.push)

	home, _ := os.UserHomeDir()

	return App{
		coord:      c,
		store:      s,
		activeView: viewTasks,
		exportDir:  home,
		activity:   newActivityModel(c),
		tasks:      newTasksModel(c),
		notes:      newNotesModel(c),
		history:    newHistoryModel(s, j),
		settings:   newSettingsModel(s),
		notesFlush: notesFlush,
		queue:      q,
		help:       h,
	}
}

// WithStatus sets the initial status line, e.g. a startup warning.
func (a App) WithStatus(text string, isError bool) App {
	a.status = text
	a.statusErr = isError
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		flushCmd(a.notesFlush),
		a.settings.refresh(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func flushCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return notesFlushMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 9 // header, countdown panel, footer
		a.activity.setSize(a.width)
		a.tasks.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case tickMsg:
		a.coord.Tick()
		a.react()
		return a, tickCmd()

	case notesFlushMsg:
		err := a.coord.FlushNotes()
		return a, tea.Batch(flushCmd(a.notesFlush), errStatus(err))

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case settingsSavedMsg:
		a.coord.SetIncrement(msg.increment)
		a.coord.SetBreakLength(msg.breakLength)
		if msg.notesFlush > 0 {
			a.notesFlush = msg.notesFlush
		}
		a.status = "Settings saved"
		a.statusErr = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits; buffered notes are flushed on shutdown.
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// A child view capturing input (form, text entry) gets every other key.
	if a.isFormActive() {
		return a.updateActiveView(msg)
	}

	if a.activity.modal() {
		if key.Matches(msg, keys.Quit) {
			return a, tea.Quit
		}
		_, cmd := a.activity.handleKey(msg)
		a.react()
		return a, cmd
	}

	switch {
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Tab1):
		return a.switchView(viewTasks)
	case key.Matches(msg, keys.Tab2):
		return a.switchView(viewNotes)
	case key.Matches(msg, keys.Tab3):
		return a.switchView(viewHistory)
	case key.Matches(msg, keys.Tab4):
		return a.switchView(viewSettings)
	case key.Matches(msg, keys.Tab):
		return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
	case key.Matches(msg, keys.Notes):
		if a.activeView == viewNotes {
			return a.switchView(viewTasks)
		}
		return a.switchView(viewNotes)
	}

	if a.activeView == viewTasks || a.activeView == viewNotes {
		switch {
		case key.Matches(msg, keys.Left):
			return a.navigate(a.coord.PrevDay)
		case key.Matches(msg, keys.Right):
			return a.navigate(a.coord.NextDay)
		case key.Matches(msg, keys.Today):
			return a.navigate(a.coord.Today)
		}
	}

	if handled, cmd := a.activity.handleKey(msg); handled {
		a.react()
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) navigate(step func() error) (tea.Model, tea.Cmd) {
	err := step()
	a.react()
	return a, errStatus(err)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

// react applies coordinator events raised during the current Update.
func (a *App) react() {
	for _, ev := range a.queue.drain() {
		switch ev.Kind {
		case coordinator.DayChanged:
			a.tasks.reset()
			a.notes.reload()
		case coordinator.TasksChanged:
			a.tasks.clamp()
		case coordinator.SessionExpired:
			a.status = a.coord.ExpiryPrompt()
			a.statusErr = false
		}
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case historyDataMsg:
		a.history, cmd = a.history.update(msg)
		return a, cmd
	case settingsDataMsg:
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	a.react()
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.capturing()
	case viewNotes:
		return a.notes.editing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	panel := a.activity.view()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewNotes:
		content = a.notes.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(panel) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, panel, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusbits")
	date := dateStyle.Render(a.dateLabel())

	left := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", date)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, tabRow),
	)
}

func (a App) dateLabel() string {
	label := a.coord.Date().Format("Mon, Jan 2 2006")
	if a.coord.IsToday() {
		label += " (today)"
	}
	return label
}

func (a App) renderFooter() string {
	var helpView string
	if a.activity.modal() {
		helpView = a.help.View(promptKeys{})
	} else {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := a.activity.footerIndicator() + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export session history")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	dir := a.exportDir
	return func() tea.Msg {
		sessions, err := a.store.ListFocus(store.SessionFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("focusbits-export-%s.csv", dateStr))
			if err := export.ToCSV(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("focusbits-export-%s.json", dateStr))
			if err := export.ToJSON(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
