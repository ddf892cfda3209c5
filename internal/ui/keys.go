package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/mpvq/internal/controller"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Pause   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Shuffle key.Binding
	Repeat  key.Binding
	Add     key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pane left")),
		Right:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "pane right")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Pause:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
		Shuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Repeat:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add url")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Pause, k.Next, k.Prev, k.Shuffle, k.Repeat, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Pause, k.Next, k.Prev},
		{k.Shuffle, k.Repeat, k.Add, k.Copy},
		{k.Help, k.Quit},
	}
}

// command maps a key press to a player command.
func (k keyMap) command(msg tea.KeyMsg) (controller.Command, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return controller.NavigateUp, true
	case key.Matches(msg, k.Down):
		return controller.NavigateDown, true
	case key.Matches(msg, k.Left):
		return controller.NavigateLeft, true
	case key.Matches(msg, k.Right):
		return controller.NavigateRight, true
	case key.Matches(msg, k.Enter):
		return controller.Enter, true
	case key.Matches(msg, k.Pause):
		return controller.TogglePause, true
	case key.Matches(msg, k.Next):
		return controller.Next, true
	case key.Matches(msg, k.Prev):
		return controller.Prev, true
	case key.Matches(msg, k.Shuffle):
		return controller.ToggleShuffle, true
	case key.Matches(msg, k.Repeat):
		return controller.CycleRepeat, true
	case key.Matches(msg, k.Quit):
		return controller.Quit, true
	}
	return 0, false
}
