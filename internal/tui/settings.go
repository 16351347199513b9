package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/session"
	"github.com/sadopc/focusbits/internal/store"
)

// DefaultNotesFlush is the notes autosave interval when none is configured.
const DefaultNotesFlush = 30 * time.Second

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	increment   *string
	breakLength *string
	notesFlush  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	inc, brk, flush := "", "", ""
	return settingsModel{
		store:       s,
		increment:   &inc,
		breakLength: &brk,
		notesFlush:  &flush,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.increment = secsToMin(s.getVal(store.SettingSessionIncrement, "900"))
	*s.breakLength = secsToMin(s.getVal(store.SettingBreakLength, "900"))
	*s.notesFlush = s.getVal(store.SettingNotesFlush, "30")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task length / added time (min)").Value(s.increment).Validate(positiveInt),
			huh.NewInput().Title("Break length (min)").Value(s.breakLength).Validate(positiveInt),
		).Title("Sessions"),
		huh.NewGroup(
			huh.NewInput().Title("Notes autosave (sec)").Value(s.notesFlush).Validate(positiveInt),
		).Title("Notes"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, errStatus(err)
		}
		saved := s.loaded()
		return s, tea.Batch(s.refresh(), func() tea.Msg { return saved })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	return errors.Join(
		s.store.SetSetting(store.SettingSessionIncrement, minToSecs(*s.increment)),
		s.store.SetSetting(store.SettingBreakLength, minToSecs(*s.breakLength)),
		s.store.SetSetting(store.SettingNotesFlush, *s.notesFlush),
	)
}

// loaded reads the effective durations back from the store.
func (s settingsModel) loaded() settingsSavedMsg {
	return settingsSavedMsg{
		increment:   s.store.SettingDuration(store.SettingSessionIncrement, session.DefaultIncrement),
		breakLength: s.store.SettingDuration(store.SettingBreakLength, session.DefaultIncrement),
		notesFlush:  s.store.SettingDuration(store.SettingNotesFlush, DefaultNotesFlush),
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingSessionIncrement, store.SettingBreakLength:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case store.SettingNotesFlush:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d sec", secs)
		}
	}
	return v
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errors.New("enter a whole number above zero")
	}
	return nil
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
