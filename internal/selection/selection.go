// Package selection tracks which pane has focus and which row is highlighted
// in each pane. It is pure index arithmetic and never touches playback.
package selection

// Pane identifies one of the three navigable lists.
type Pane int

const (
	Playlists Pane = iota
	Tracks
	Queue
)

const paneCount = 3

// None marks a pane with no highlighted row.
const None = -1

// String returns the name of the pane.
func (p Pane) String() string {
	switch p {
	case Tracks:
		return "tracks"
	case Queue:
		return "queue"
	default:
		return "playlists"
	}
}

// Direction is a vertical or horizontal movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Sizes reports the current length of each pane. Tracks is the number of
// tracks in the currently selected playlist, not the whole library.
type Sizes struct {
	Playlists int
	Tracks    int
	Queue     int
}

func (s Sizes) of(p Pane) int {
	switch p {
	case Tracks:
		return s.Tracks
	case Queue:
		return s.Queue
	default:
		return s.Playlists
	}
}

// NextIndex returns the row below current, wrapping to 0 after the last row.
// A current of None selects row 0. An empty list always yields 0.
func NextIndex(current, length int) int {
	if length <= 0 {
		return 0
	}
	if current < 0 || current >= length-1 {
		return 0
	}
	return current + 1
}

// PrevIndex returns the row above current, wrapping to the last row from 0.
// A current of None selects the last row. An empty list always yields 0.
func PrevIndex(current, length int) int {
	if length <= 0 {
		return 0
	}
	if current <= 0 || current > length-1 {
		return length - 1
	}
	return current - 1
}

// State is the focused pane plus an independently remembered row per pane.
type State struct {
	focus Pane
	rows  [paneCount]int
}

// New returns a State focused on the playlists pane with no rows selected.
func New() *State {
	return &State{focus: Playlists, rows: [paneCount]int{None, None, None}}
}

// Init highlights the first playlist and its first track when they exist,
// leaving the queue pane unselected.
func (s *State) Init(sizes Sizes) {
	s.focus = Playlists
	s.rows = [paneCount]int{None, None, None}
	if sizes.Playlists > 0 {
		s.rows[Playlists] = 0
		if sizes.Tracks > 0 {
			s.rows[Tracks] = 0
		}
	}
}

// Focus returns the pane with input focus.
func (s *State) Focus() Pane {
	return s.focus
}

// Row returns the remembered row for p, or None.
func (s *State) Row(p Pane) int {
	if p < 0 || p >= paneCount {
		return None
	}
	return s.rows[p]
}

// PlaylistRow is the highlighted playlist, or None.
func (s *State) PlaylistRow() int { return s.rows[Playlists] }

// TrackRow is the highlighted track of the selected playlist, or None.
func (s *State) TrackRow() int { return s.rows[Tracks] }

// QueueRow is the highlighted queue entry, or None.
func (s *State) QueueRow() int { return s.rows[Queue] }

// SetRow sets the remembered row for p. Rows outside [0, length) become None.
func (s *State) SetRow(p Pane, row, length int) {
	if p < 0 || p >= paneCount {
		return
	}
	if row < 0 || row >= length {
		row = None
	}
	s.rows[p] = row
}

// MoveVertical moves the focused pane's row up or down, bounded by that
// pane's length. Left and Right are ignored. An empty pane is left alone.
func (s *State) MoveVertical(dir Direction, sizes Sizes) {
	length := sizes.of(s.focus)
	if length == 0 {
		return
	}
	switch dir {
	case Up:
		s.rows[s.focus] = PrevIndex(s.rows[s.focus], length)
	case Down:
		s.rows[s.focus] = NextIndex(s.rows[s.focus], length)
	}
}

// MoveHorizontal cycles focus around the ring Playlists, Tracks, Queue.
// The arriving pane's row is clamped to its current length, so returning to
// a pane keeps its context. An empty pane ends up with no row.
func (s *State) MoveHorizontal(dir Direction, sizes Sizes) {
	switch dir {
	case Left:
		s.focus = (s.focus + paneCount - 1) % paneCount
	case Right:
		s.focus = (s.focus + 1) % paneCount
	default:
		return
	}

	length := sizes.of(s.focus)
	if length == 0 {
		s.rows[s.focus] = None
		return
	}
	row := s.rows[s.focus]
	if row < 0 {
		row = 0
	}
	s.rows[s.focus] = min(row, length-1)
}
