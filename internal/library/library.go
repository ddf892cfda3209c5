// Package library holds the playlists a session can play from.
package library

import "github.com/samber/lo"

// Track is a single playable item. Tracks are small values and are copied,
// never shared, between playlists and the play queue.
type Track struct {
	Title    string
	Artist   string
	Duration uint32 // seconds, 0 when unknown
	URL      string
}

// Label returns "artist - title", or just the title when the artist is unknown.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Playlist is a named, ordered list of tracks. The queue engine never mutates it.
type Playlist struct {
	Name   string
	Tracks []Track
}

// Library is the ordered set of playlists. Insertion order is display order.
// Playlists are appended at load time and never removed or reordered.
type Library struct {
	playlists []Playlist
}

// New creates a Library holding copies of the given playlists.
func New(playlists ...Playlist) *Library {
	l := &Library{}
	for _, p := range playlists {
		l.Append(p)
	}
	return l
}

// Append adds a playlist to the end of the library. The track slice is
// copied so later changes by the caller cannot leak in.
func (l *Library) Append(p Playlist) {
	tracks := make([]Track, len(p.Tracks))
	copy(tracks, p.Tracks)
	l.playlists = append(l.playlists, Playlist{Name: p.Name, Tracks: tracks})
}

// Len returns the number of playlists.
func (l *Library) Len() int {
	return len(l.playlists)
}

// Playlist returns the playlist at i, or false if i is out of range.
func (l *Library) Playlist(i int) (Playlist, bool) {
	if i < 0 || i >= len(l.playlists) {
		return Playlist{}, false
	}
	return l.playlists[i], true
}

// TrackCount returns the number of tracks in playlist i, or 0 if i is out of range.
func (l *Library) TrackCount(i int) int {
	if i < 0 || i >= len(l.playlists) {
		return 0
	}
	return len(l.playlists[i].Tracks)
}

// Names returns the playlist names in display order.
func (l *Library) Names() []string {
	return lo.Map(l.playlists, func(p Playlist, _ int) string { return p.Name })
}
