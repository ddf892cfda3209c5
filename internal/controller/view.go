package controller

import (
	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/queue"
	"github.com/olivier-w/mpvq/internal/selection"
)

// View is a read-only snapshot of everything the UI renders.
type View struct {
	Playlists []string
	Tracks    []library.Track // of the highlighted playlist
	Queue     []library.Track

	Focus       selection.Pane
	PlaylistRow int
	TrackRow    int
	QueueRow    int

	// Current is the queue position, or selection.None when the queue is empty.
	Current    int
	NowPlaying library.Track
	HasTrack   bool

	Playing bool
	Paused  bool
	Elapsed uint32
	Repeat  queue.RepeatMode
	Shuffle queue.ShuffleMode
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	v := View{
		Playlists:   c.lib.Names(),
		Queue:       c.queue.Tracks(),
		Focus:       c.sel.Focus(),
		PlaylistRow: c.sel.PlaylistRow(),
		TrackRow:    c.sel.TrackRow(),
		QueueRow:    c.sel.QueueRow(),
		Current:     selection.None,
		Playing:     c.driver.Playing(),
		Paused:      c.driver.Paused(),
		Elapsed:     c.driver.Elapsed(),
		Repeat:      c.queue.Repeat(),
		Shuffle:     c.queue.Shuffle(),
	}
	if p, ok := c.lib.Playlist(c.sel.PlaylistRow()); ok {
		v.Tracks = append([]library.Track(nil), p.Tracks...)
	}
	if t, ok := c.queue.Current(); ok {
		v.Current = c.queue.CurrentIndex()
		v.NowPlaying = t
		if t.Duration == 0 {
			v.NowPlaying.Duration = c.driver.Duration()
		}
		v.HasTrack = c.driver.Playing() || c.driver.Paused()
	}
	return v
}
