package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCopiesTracks(t *testing.T) {
	tracks := []Track{{Title: "a"}, {Title: "b"}}
	l := New(Playlist{Name: "mix", Tracks: tracks})

	tracks[0].Title = "changed"

	p, ok := l.Playlist(0)
	require.True(t, ok)
	assert.Equal(t, "a", p.Tracks[0].Title)
}

func TestPlaylistOutOfRange(t *testing.T) {
	l := New()
	_, ok := l.Playlist(0)
	assert.False(t, ok)
	_, ok = l.Playlist(-1)
	assert.False(t, ok)
	assert.Equal(t, 0, l.TrackCount(3))
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	l := New(Playlist{Name: "first"})
	l.Append(Playlist{Name: "second", Tracks: []Track{{Title: "x"}}})

	assert.Equal(t, []string{"first", "second"}, l.Names())
	assert.Equal(t, 1, l.TrackCount(1))
}

func TestTrackLabel(t *testing.T) {
	assert.Equal(t, "Song", Track{Title: "Song"}.Label())
	assert.Equal(t, "Band - Song", Track{Title: "Song", Artist: "Band"}.Label())
}
