package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbits/internal/day"
	"github.com/sadopc/focusbits/internal/store"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
)

type historyModel struct {
	store   *store.Store
	journal *store.Journal
	width   int
	height  int

	mode      historyMode
	offset    int // 7-day blocks or weeks back from today
	focus     []store.DailyFocus
	completed map[string]int

	chart barchart.Model
}

func newHistoryModel(s *store.Store, j *store.Journal) historyModel {
	return historyModel{
		store:   s,
		journal: j,
		chart:   barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	focus     []store.DailyFocus
	completed map[string]int
	err       error
}

func (h historyModel) refresh() tea.Cmd {
	from, to := h.dateRange()
	return func() tea.Msg {
		focus, err := h.store.GetDailyFocus(day.Key(from), day.Key(to))
		if err != nil {
			return historyDataMsg{err: err}
		}
		completed, err := h.journal.CompletedCounts(day.Key(from), day.Key(to))
		return historyDataMsg{focus: focus, completed: completed, err: err}
	}
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	today := day.Midnight(time.Now())

	switch h.mode {
	case historyWeekly:
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		start := today.AddDate(0, 0, -int(weekday-time.Monday))
		start = start.AddDate(0, 0, -7*h.offset)
		return start, start.AddDate(0, 0, 7)
	default:
		end := today.AddDate(0, 0, 1-7*h.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.focus = msg.focus
		h.completed = msg.completed
		h.buildChart()
		return h, errStatus(msg.err)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Pane):
			if h.mode == historyDaily {
				h.mode = historyWeekly
			} else {
				h.mode = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

// minutesFor returns focus minutes for a day and kind.
func (h historyModel) minutesFor(key, kind string) float64 {
	for _, f := range h.focus {
		if f.Day == key && f.Kind == kind {
			return float64(f.TotalSeconds) / 60
		}
	}
	return 0
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}
	h.chart = barchart.New(chartWidth, chartHeight)

	taskStyle := lipgloss.NewStyle().Foreground(colorAccent)
	breakStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	from, to := h.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		k := day.Key(d)
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "task", Value: h.minutesFor(k, "task"), Style: taskStyle},
				{Name: "break", Value: h.minutesFor(k, "break"), Style: breakStyle},
			},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.mode == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := "  " + lipgloss.NewStyle().Foreground(colorAccent).Render("● focus") +
		"  " + lipgloss.NewStyle().Foreground(colorSuccess).Render("● break") +
		mutedStyle.Render("  (minutes)")

	nav := mutedStyle.Render("  ←/→: navigate  v: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), legend, "", h.renderTable(w), "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	from, to := h.dateRange()

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %9s %6s", "Day", "Focus", "Break", "Sessions", "Done")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 52))))

	hasData := false
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		k := day.Key(d)
		var focusSecs, breakSecs int64
		sessions := 0
		for _, f := range h.focus {
			if f.Day != k {
				continue
			}
			sessions += f.Sessions
			if f.Kind == "break" {
				breakSecs += f.TotalSeconds
			} else {
				focusSecs += f.TotalSeconds
			}
		}
		done := h.completed[k]
		if sessions == 0 && done == 0 {
			continue
		}
		hasData = true
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %9d %6d",
			k, formatSeconds(focusSecs), formatSeconds(breakSecs), sessions, done,
		))
	}
	if !hasData {
		return mutedStyle.Render("  No data for this period")
	}
	return strings.Join(rows, "\n")
}
