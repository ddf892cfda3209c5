package queue

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/olivier-w/mpvq/internal/library"
)

// MaxLength caps how many tracks the queue holds. Repeat modes pad up to it.
const MaxLength = 50

// Engine owns the play queue: its derivation from a playlist and the
// reversible shuffle and repeat transforms.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Engine struct {
	tracks  []library.Track
	current int

	// source is the full track list of the playlist the queue came from.
	source []library.Track

	// Full copies taken when a transform was first applied. nil means none.
	beforeShuffle []library.Track
	beforeRepeat  []library.Track

	repeat  RepeatMode
	shuffle ShuffleMode

	intn func(n int) int
}

// New creates an empty Engine with repeat and shuffle off.
func New() *Engine {
	return &Engine{intn: rand.IntN}
}

// Enter replaces the queue with the playlist's tracks from start to the end,
// capped at MaxLength. Snapshots held for the previous queue are dropped.
// A start past the end yields an empty queue.
func (e *Engine) Enter(p library.Playlist, start int) {
	e.source = clone(p.Tracks)
	e.beforeShuffle = nil
	e.beforeRepeat = nil
	e.current = 0

	if start < 0 {
		start = 0
	}
	if start >= len(p.Tracks) {
		e.tracks = nil
		return
	}
	tracks := p.Tracks[start:]
	if len(tracks) > MaxLength {
		tracks = tracks[:MaxLength]
	}
	e.tracks = clone(tracks)
}

// JumpTo moves the current position to i without touching the queue.
// Returns false if i is out of range.
func (e *Engine) JumpTo(i int) bool {
	if i < 0 || i >= len(e.tracks) {
		return false
	}
	e.current = i
	return true
}

// Len returns the number of queued tracks.
func (e *Engine) Len() int {
	return len(e.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (e *Engine) CurrentIndex() int {
	return e.current
}

// Current returns the current track, or false if the queue is empty.
func (e *Engine) Current() (library.Track, bool) {
	return e.Track(e.current)
}

// Track returns the track at i, or false if i is out of range.
func (e *Engine) Track(i int) (library.Track, bool) {
	if i < 0 || i >= len(e.tracks) {
		return library.Track{}, false
	}
	return e.tracks[i], true
}

// Tracks returns a copy of the queue.
func (e *Engine) Tracks() []library.Track {
	return clone(e.tracks)
}

// Repeat returns the active repeat mode.
func (e *Engine) Repeat() RepeatMode {
	return e.repeat
}

// Shuffle returns the active shuffle mode.
func (e *Engine) Shuffle() ShuffleMode {
	return e.shuffle
}

// SetRepeat sets the repeat mode without transforming the queue.
// Call ApplyRepeat afterwards to bring the queue in line.
func (e *Engine) SetRepeat(r RepeatMode) {
	e.repeat = r
}

// SetShuffle sets the shuffle mode without transforming the queue.
// Call ApplyShuffle afterwards to bring the queue in line.
func (e *Engine) SetShuffle(s ShuffleMode) {
	e.shuffle = s
}

// NextIndex returns the index that should play after the current one under
// the active repeat mode. ok is false when playback should stop: the queue is
// empty, or repeat is off and the current track is the last.
func (e *Engine) NextIndex() (next int, ok bool) {
	n := len(e.tracks)
	if n == 0 {
		return 0, false
	}
	switch e.repeat {
	case RepeatOne:
		return e.current, true
	case RepeatAll:
		return (e.current + 1) % n, true
	default:
		if e.current+1 >= n {
			return e.current, false
		}
		return e.current + 1, true
	}
}

// PrevIndex returns the index before the current one, wrapping to the last
// track from the first. Repeat mode does not apply. ok is false when empty.
func (e *Engine) PrevIndex() (prev int, ok bool) {
	n := len(e.tracks)
	if n == 0 {
		return 0, false
	}
	return (e.current - 1 + n) % n, true
}

// ToggleShuffle flips shuffle mode. Turning it on shuffles the queue behind
// the current track. Turning it off restores the order saved when shuffle was
// first applied, or the full source playlist if none was saved, and rewinds
// to the first track.
func (e *Engine) ToggleShuffle() {
	e.shuffle = e.shuffle.Toggle()
	if e.shuffle == ShuffleOn {
		e.ApplyShuffle()
		return
	}

	switch {
	case e.beforeShuffle != nil:
		e.tracks = e.beforeShuffle
	case len(e.tracks) > 0:
		e.tracks = capped(e.source)
	}
	e.beforeShuffle = nil
	e.current = 0
}

// ApplyShuffle shuffles the queue if shuffle mode is on and there is more
// than one track. The current track moves to position 0 and the rest are
// permuted with Fisher-Yates. The pre-shuffle order is saved unless an
// earlier copy is still held.
func (e *Engine) ApplyShuffle() {
	if e.shuffle != ShuffleOn || len(e.tracks) <= 1 {
		return
	}
	if e.beforeShuffle == nil {
		e.beforeShuffle = clone(e.tracks)
	}

	playing := e.tracks[e.current]
	rest := make([]library.Track, 0, len(e.tracks)-1)
	rest = append(rest, e.tracks[:e.current]...)
	rest = append(rest, e.tracks[e.current+1:]...)
	for i := len(rest) - 1; i > 0; i-- {
		j := e.intn(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}

	e.tracks = append([]library.Track{playing}, rest...)
	e.current = 0
}

// CycleRepeat rotates repeat mode None -> One -> All -> None and applies it.
func (e *Engine) CycleRepeat() {
	e.repeat = e.repeat.Next()
	e.ApplyRepeat()
}

// ApplyRepeat transforms the queue for the active repeat mode.
//
//   - RepeatOne fills the queue with copies of the current track.
//   - RepeatAll pads the queue with its own contents up to MaxLength.
//   - RepeatOff restores the order saved before repeat was applied, or the
//     full source playlist.
//
// The current track keeps playing across the transform.
func (e *Engine) ApplyRepeat() {
	if len(e.tracks) == 0 {
		return
	}
	playing := e.tracks[e.current]

	switch e.repeat {
	case RepeatOne:
		if e.beforeRepeat == nil {
			e.beforeRepeat = clone(e.tracks)
		}
		e.tracks = lo.RepeatBy(MaxLength, func(int) library.Track { return playing })
		e.current = 0

	case RepeatAll:
		if e.beforeRepeat == nil {
			e.beforeRepeat = clone(e.tracks)
		} else {
			e.tracks = clone(e.beforeRepeat)
		}
		e.tracks = pad(e.tracks)
		e.current = max(lo.IndexOf(e.tracks, playing), 0)

	default:
		if e.beforeRepeat != nil {
			e.tracks = e.beforeRepeat
		} else {
			e.tracks = capped(e.source)
		}
		e.beforeRepeat = nil
		e.current = max(lo.IndexOf(e.tracks, playing), 0)
	}
}

// pad appends whole and partial copies of base until it reaches MaxLength.
func pad(base []library.Track) []library.Track {
	if len(base) == 0 || len(base) >= MaxLength {
		return base
	}
	n := len(base)
	extra := lo.RepeatBy(MaxLength-n, func(i int) library.Track { return base[i%n] })
	return append(base, extra...)
}

func capped(tracks []library.Track) []library.Track {
	if len(tracks) > MaxLength {
		tracks = tracks[:MaxLength]
	}
	return clone(tracks)
}

func clone(tracks []library.Track) []library.Track {
	if tracks == nil {
		return nil
	}
	out := make([]library.Track, len(tracks))
	copy(out, tracks)
	return out
}
