package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPrevRoundTrip(t *testing.T) {
	for length := 1; length <= 6; length++ {
		for cur := 0; cur < length; cur++ {
			assert.Equal(t, cur, PrevIndex(NextIndex(cur, length), length), "next then prev, len=%d cur=%d", length, cur)
			assert.Equal(t, cur, NextIndex(PrevIndex(cur, length), length), "prev then next, len=%d cur=%d", length, cur)
		}
	}
}

func TestIndexOnEmptyList(t *testing.T) {
	assert.Equal(t, 0, NextIndex(None, 0))
	assert.Equal(t, 0, PrevIndex(None, 0))
	assert.Equal(t, 0, NextIndex(3, 0))
	assert.Equal(t, 0, PrevIndex(3, 0))
}

func TestIndexFromNone(t *testing.T) {
	assert.Equal(t, 0, NextIndex(None, 4))
	assert.Equal(t, 3, PrevIndex(None, 4))
}

func TestIndexWraps(t *testing.T) {
	assert.Equal(t, 0, NextIndex(3, 4))
	assert.Equal(t, 3, PrevIndex(0, 4))
}

func TestInitSelectsFirstPlaylistAndTrack(t *testing.T) {
	s := New()
	s.Init(Sizes{Playlists: 2, Tracks: 5})

	assert.Equal(t, Playlists, s.Focus())
	assert.Equal(t, 0, s.PlaylistRow())
	assert.Equal(t, 0, s.TrackRow())
	assert.Equal(t, None, s.QueueRow())
}

func TestInitEmptyLibrary(t *testing.T) {
	s := New()
	s.Init(Sizes{})

	assert.Equal(t, None, s.PlaylistRow())
	assert.Equal(t, None, s.TrackRow())
}

func TestMoveVerticalOnlyTouchesFocusedPane(t *testing.T) {
	s := New()
	s.Init(Sizes{Playlists: 3, Tracks: 4})

	s.MoveVertical(Down, Sizes{Playlists: 3, Tracks: 4})
	assert.Equal(t, 1, s.PlaylistRow())
	assert.Equal(t, 0, s.TrackRow(), "track row is independent of playlist row")

	s.MoveVertical(Up, Sizes{Playlists: 3, Tracks: 4})
	s.MoveVertical(Up, Sizes{Playlists: 3, Tracks: 4})
	assert.Equal(t, 2, s.PlaylistRow())
}

func TestMoveVerticalBoundedByPaneLength(t *testing.T) {
	s := New()
	s.Init(Sizes{Playlists: 5, Tracks: 2})
	s.MoveHorizontal(Right, Sizes{Playlists: 5, Tracks: 2})
	assert.Equal(t, Tracks, s.Focus())

	s.MoveVertical(Down, Sizes{Playlists: 5, Tracks: 2})
	s.MoveVertical(Down, Sizes{Playlists: 5, Tracks: 2})
	assert.Equal(t, 0, s.TrackRow())
}

func TestMoveVerticalEmptyPaneIsNoop(t *testing.T) {
	s := New()
	s.MoveHorizontal(Left, Sizes{})
	assert.Equal(t, Queue, s.Focus())

	s.MoveVertical(Down, Sizes{})
	assert.Equal(t, None, s.QueueRow())
}

func TestMoveHorizontalRing(t *testing.T) {
	s := New()
	sizes := Sizes{Playlists: 1, Tracks: 1, Queue: 1}

	s.MoveHorizontal(Right, sizes)
	assert.Equal(t, Tracks, s.Focus())
	s.MoveHorizontal(Right, sizes)
	assert.Equal(t, Queue, s.Focus())
	s.MoveHorizontal(Right, sizes)
	assert.Equal(t, Playlists, s.Focus())
	s.MoveHorizontal(Left, sizes)
	assert.Equal(t, Queue, s.Focus())
}

func TestMoveHorizontalClampsRememberedRow(t *testing.T) {
	s := New()
	s.focus = Tracks
	s.rows[Queue] = 5

	s.MoveHorizontal(Right, Sizes{Playlists: 1, Tracks: 1, Queue: 3})
	assert.Equal(t, Queue, s.Focus())
	assert.Equal(t, 2, s.QueueRow())
}

func TestMoveHorizontalPreservesContext(t *testing.T) {
	s := New()
	sizes := Sizes{Playlists: 4, Tracks: 6, Queue: 2}
	s.Init(sizes)
	s.MoveHorizontal(Right, sizes)
	s.MoveVertical(Down, sizes)
	s.MoveVertical(Down, sizes)
	assert.Equal(t, 2, s.TrackRow())

	s.MoveHorizontal(Left, sizes)
	s.MoveHorizontal(Right, sizes)
	assert.Equal(t, 2, s.TrackRow())
}

func TestMoveHorizontalEmptyPaneSelectsNothing(t *testing.T) {
	s := New()
	s.rows[Tracks] = 3

	s.MoveHorizontal(Right, Sizes{Playlists: 1})
	assert.Equal(t, None, s.TrackRow())
}

func TestSetRowRejectsOutOfRange(t *testing.T) {
	s := New()
	s.SetRow(Queue, 4, 3)
	assert.Equal(t, None, s.QueueRow())
	s.SetRow(Queue, 1, 3)
	assert.Equal(t, 1, s.QueueRow())
}
