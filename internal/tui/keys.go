package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New      key.Binding
	Complete key.Binding
	Delete   key.Binding
	Edit     key.Binding
	Pane     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding

	Assign  key.Binding
	Break   key.Binding
	AddTime key.Binding
	Pause   key.Binding
	Stop    key.Binding

	Accept   key.Binding
	Decline  key.Binding
	Done     key.Binding
	MoreTime key.Binding
	Skip     key.Binding

	Today  key.Binding
	Notes  key.Binding
	Copy   key.Binding
	Export key.Binding

	Tab1  key.Binding
	Tab2  key.Binding
	Tab3  key.Binding
	Tab4  key.Binding
	Tab   key.Binding
	Help  key.Binding
	Enter key.Binding
	Back  key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("a", "n"),
		key.WithHelp("a", "add task"),
	),
	Complete: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "complete"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Edit: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename done"),
	),
	Pane: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "switch list"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Assign: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "pick a task"),
	),
	Break: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "break"),
	),
	AddTime: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "add time"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Accept: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "accept"),
	),
	Decline: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "decline"),
	),
	Done: key.NewBinding(
		key.WithKeys("d", "y"),
		key.WithHelp("d", "done"),
	),
	MoreTime: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "more time"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s", "n"),
		key.WithHelp("s", "skip"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Notes: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "notes"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "tasks"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "notes"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "history"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev day"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next day"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Assign, k.Break, k.Left, k.Right, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Complete, k.Delete, k.Edit, k.Pane, k.MoveUp, k.MoveDown},
		{k.Assign, k.Break, k.AddTime, k.Pause, k.Stop},
		{k.Left, k.Right, k.Today, k.Notes, k.Copy, k.Export},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}

// promptKeys is shown while a session waits for a decision.
type promptKeys struct{}

func (promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{keys.Done, keys.MoreTime, keys.Skip}
}

func (p promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}
