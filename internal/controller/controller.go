// Package controller routes user commands and clock ticks to the selection,
// queue and playback components.
package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/playback"
	"github.com/olivier-w/mpvq/internal/queue"
	"github.com/olivier-w/mpvq/internal/selection"
)

// Command is a discrete user input.
type Command int

const (
	NavigateUp Command = iota
	NavigateDown
	NavigateLeft
	NavigateRight
	Enter
	TogglePause
	Next
	Prev
	ToggleShuffle
	CycleRepeat
	Quit
)

var commandNames = [...]string{
	NavigateUp:    "up",
	NavigateDown:  "down",
	NavigateLeft:  "left",
	NavigateRight: "right",
	Enter:         "enter",
	TogglePause:   "pause",
	Next:          "next",
	Prev:          "prev",
	ToggleShuffle: "shuffle",
	CycleRepeat:   "repeat",
	Quit:          "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Options configures a Controller.
type Options struct {
	Logger       *slog.Logger
	QueryTimeout time.Duration
	Repeat       queue.RepeatMode
	Shuffle      queue.ShuffleMode
}

// Controller is the composition root of the player core. It owns no state of
// its own beyond the quit flag.
// It is only used from Bubbletea's single-threaded Update loop.
type Controller struct {
	lib    *library.Library
	sel    *selection.State
	queue  *queue.Engine
	driver *playback.Driver
	log    *slog.Logger
	quit   bool
}

// New wires a Controller over lib and backend. The first playlist and its
// first track start highlighted.
func New(lib *library.Library, backend playback.Backend, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	q := queue.New()
	q.SetRepeat(opts.Repeat)
	q.SetShuffle(opts.Shuffle)

	c := &Controller{
		lib:    lib,
		sel:    selection.New(),
		queue:  q,
		driver: playback.NewDriver(backend, q, log, opts.QueryTimeout),
		log:    log,
	}
	c.sel.Init(c.sizes())
	return c
}

func (c *Controller) sizes() selection.Sizes {
	return selection.Sizes{
		Playlists: c.lib.Len(),
		Tracks:    c.lib.TrackCount(c.sel.PlaylistRow()),
		Queue:     c.queue.Len(),
	}
}

// AddPlaylist appends p to the library. When it is the first playlist it
// becomes the highlighted one.
func (c *Controller) AddPlaylist(p library.Playlist) {
	c.lib.Append(p)
	if c.sel.PlaylistRow() == selection.None {
		c.sel.Init(c.sizes())
	}
	c.log.Info("playlist added", slog.String("name", p.Name), slog.Int("tracks", len(p.Tracks)))
}

// Handle applies one command. Only commands that reach the player can fail;
// the returned error is for display and leaves the core consistent.
func (c *Controller) Handle(ctx context.Context, cmd Command) error {
	c.log.Debug("command", slog.String("cmd", cmd.String()))

	switch cmd {
	case NavigateUp:
		c.sel.MoveVertical(selection.Up, c.sizes())
	case NavigateDown:
		c.sel.MoveVertical(selection.Down, c.sizes())
	case NavigateLeft:
		c.sel.MoveHorizontal(selection.Left, c.sizes())
	case NavigateRight:
		c.sel.MoveHorizontal(selection.Right, c.sizes())
	case Enter:
		return c.enter(ctx)
	case TogglePause:
		return c.driver.TogglePause(ctx)
	case Next:
		return c.driver.AdvanceNext(ctx)
	case Prev:
		return c.driver.AdvancePrev(ctx)
	case ToggleShuffle:
		defer c.clampQueueRow()
		return c.toggleShuffle(ctx)
	case CycleRepeat:
		c.queue.CycleRepeat()
		c.clampQueueRow()
	case Quit:
		c.quit = true
		return c.driver.Close()
	}
	return nil
}

func (c *Controller) enter(ctx context.Context) error {
	switch c.sel.Focus() {
	case selection.Queue:
		row := c.sel.QueueRow()
		if _, ok := c.queue.Track(row); !ok {
			return nil
		}
		return c.driver.PlayAt(ctx, row)

	case selection.Tracks:
		p, ok := c.lib.Playlist(c.sel.PlaylistRow())
		row := c.sel.TrackRow()
		if !ok || row < 0 || row >= len(p.Tracks) {
			return nil
		}
		return c.start(ctx, p, row)

	default:
		p, ok := c.lib.Playlist(c.sel.PlaylistRow())
		if !ok {
			return nil
		}
		return c.start(ctx, p, 0)
	}
}

// start builds a fresh queue from p, brings it in line with the active
// repeat and shuffle modes, and plays it from the top.
func (c *Controller) start(ctx context.Context, p library.Playlist, from int) error {
	c.queue.Enter(p, from)
	if c.queue.Repeat() != queue.RepeatOff {
		c.queue.ApplyRepeat()
	}
	c.queue.ApplyShuffle()

	if c.queue.Len() == 0 {
		c.driver.Stop()
		return nil
	}
	return c.driver.Restart(ctx)
}

func (c *Controller) toggleShuffle(ctx context.Context) error {
	c.queue.ToggleShuffle()
	if c.queue.Shuffle() == queue.ShuffleOn {
		return nil
	}
	// The queue was rewound to its first track.
	if c.driver.Playing() {
		return c.driver.Restart(ctx)
	}
	c.driver.Stop()
	return nil
}

// clampQueueRow keeps the queue highlight on an existing row when the queue
// is reshaped while its pane has focus.
func (c *Controller) clampQueueRow() {
	if c.sel.Focus() != selection.Queue {
		return
	}
	n := c.queue.Len()
	c.sel.SetRow(selection.Queue, min(c.sel.QueueRow(), n-1), n)
}

// Tick forwards a UI tick to the playback driver.
func (c *Controller) Tick(ctx context.Context, counter int) error {
	return c.driver.OnTick(ctx, counter)
}

// Quitting reports whether Quit has been handled.
func (c *Controller) Quitting() bool {
	return c.quit
}

// Close stops playback and kills any live player process.
func (c *Controller) Close() error {
	return c.driver.Close()
}
