package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/mpvq/internal/library"
)

// TickInterval is the period of the playback clock.
const TickInterval = 250 * time.Millisecond

type tickMsg struct {
	counter int
}

// playlistsLoadedMsg carries the result of loading one source at runtime.
type playlistsLoadedMsg struct {
	source    string
	playlists []library.Playlist
	err       error
}

// playlistFileAddedMsg is a new playlist file seen by the library watcher.
type playlistFileAddedMsg string

type copiedMsg struct {
	url string
	err error
}

func tickCmd(counter int) tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return tickMsg{counter: counter}
	})
}
