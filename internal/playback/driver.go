package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olivier-w/mpvq/internal/queue"
)

// TicksPerSecond is how many UI ticks make up one second of playback.
const TicksPerSecond = 4

// DefaultQueryTimeout bounds a single elapsed-time query.
const DefaultQueryTimeout = 200 * time.Millisecond

// Driver owns the playing flag and elapsed time. The queue position itself
// lives in the queue engine; the driver moves it only after the backend has
// accepted the new track.
// It is only used from Bubbletea's single-threaded Update loop.
type Driver struct {
	backend      Backend
	queue        *queue.Engine
	log          *slog.Logger
	queryTimeout time.Duration

	handle   Handle
	playing  bool
	elapsed  uint32
	duration uint32
}

// NewDriver creates a stopped Driver. A zero queryTimeout uses DefaultQueryTimeout.
func NewDriver(backend Backend, q *queue.Engine, log *slog.Logger, queryTimeout time.Duration) *Driver {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		backend:      backend,
		queue:        q,
		log:          log,
		queryTimeout: queryTimeout,
	}
}

// Playing reports whether a track is currently playing (not paused or stopped).
func (d *Driver) Playing() bool {
	return d.playing
}

// Paused reports whether a player process is alive but paused.
func (d *Driver) Paused() bool {
	return !d.playing && d.handle != ""
}

// Elapsed returns the seconds played of the current track.
func (d *Driver) Elapsed() uint32 {
	return d.elapsed
}

// Duration returns the length of the current track: its metadata length, or
// what the player measured when the metadata had none. Zero means unknown.
func (d *Driver) Duration() uint32 {
	return d.duration
}

// PlayAt stops whatever is playing and starts queue index i. The queue
// position moves to i only if the player started. On failure playback is
// stopped and the error wraps ErrSpawn.
func (d *Driver) PlayAt(ctx context.Context, i int) error {
	track, ok := d.queue.Track(i)
	if !ok {
		d.Stop()
		return nil
	}

	d.kill()
	d.elapsed = 0
	d.duration = 0

	h, err := d.backend.Play(ctx, track.URL)
	if err != nil {
		d.playing = false
		d.log.Warn("player failed to start",
			slog.String("url", track.URL),
			slog.Any("error", err))
		return fmt.Errorf("%w: %s: %w", ErrSpawn, track.Label(), err)
	}

	d.queue.JumpTo(i)
	d.handle = h
	d.playing = true
	d.duration = track.Duration
	d.log.Info("playing",
		slog.Int("index", i),
		slog.String("track", track.Label()),
		slog.String("url", track.URL))
	return nil
}

// Restart starts the current queue position from the beginning.
func (d *Driver) Restart(ctx context.Context) error {
	return d.PlayAt(ctx, d.queue.CurrentIndex())
}

// AdvanceNext moves to the next track as the repeat mode dictates. With
// repeat off and the last track current, playback stops and the position
// is kept.
func (d *Driver) AdvanceNext(ctx context.Context) error {
	next, ok := d.queue.NextIndex()
	if !ok {
		d.Stop()
		return nil
	}
	return d.PlayAt(ctx, next)
}

// AdvancePrev moves to the previous track, wrapping from the first to the
// last regardless of repeat mode.
func (d *Driver) AdvancePrev(ctx context.Context) error {
	prev, ok := d.queue.PrevIndex()
	if !ok {
		d.Stop()
		return nil
	}
	return d.PlayAt(ctx, prev)
}

// TogglePause pauses a playing track, resumes a paused one without starting
// a new process, and starts the current track when nothing is running.
func (d *Driver) TogglePause(ctx context.Context) error {
	switch {
	case d.playing:
		if err := d.backend.Pause(d.handle); err != nil {
			d.log.Warn("pause failed", slog.Any("error", err))
			d.kill()
			d.playing = false
			return fmt.Errorf("pause: %w", err)
		}
		d.playing = false
		return nil
	case d.handle != "":
		if err := d.backend.Resume(d.handle); err != nil {
			d.log.Warn("resume failed", slog.Any("error", err))
			d.kill()
			return fmt.Errorf("resume: %w", err)
		}
		d.playing = true
		return nil
	default:
		return d.Restart(ctx)
	}
}

// OnTick is called for every UI tick. Once per second of ticks it updates
// the elapsed time, preferring the player's own position and falling back
// to counting, and advances when the track has finished. A track is finished
// when the elapsed time reaches its duration or when the player exits.
// Live streams of unknown duration only end when the player does.
func (d *Driver) OnTick(ctx context.Context, counter int) error {
	if d.queue.Len() == 0 {
		d.Stop()
		return nil
	}
	if !d.playing || counter%TicksPerSecond != TicksPerSecond-1 {
		return nil
	}

	track, ok := d.queue.Current()
	if !ok {
		return nil
	}

	secs, err := d.query(ctx)
	switch {
	case errors.Is(err, ErrExited):
		d.log.Info("player exited", slog.String("track", track.Label()), slog.Uint64("elapsed", uint64(d.elapsed)))
		d.elapsed = 0
		return d.AdvanceNext(ctx)
	case err != nil:
		d.log.Debug("using local elapsed counter", slog.Any("error", err))
		d.elapsed++
	default:
		d.elapsed = secs
	}

	if d.duration == 0 {
		d.duration = d.measure(ctx)
	}
	threshold := d.duration
	// Trailing silence: move on a second early when the player is authoritative.
	if err == nil && threshold > 0 {
		threshold--
	}

	if d.duration == 0 || d.elapsed < threshold {
		return nil
	}
	d.elapsed = 0
	return d.AdvanceNext(ctx)
}

// measure asks the player for the length of a track whose metadata had none.
func (d *Driver) measure(ctx context.Context) uint32 {
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()

	secs, err := d.backend.Duration(ctx, d.handle)
	if err != nil {
		d.log.Debug("duration unavailable", slog.Any("error", err))
		return 0
	}
	if secs > 0 {
		d.log.Debug("duration from player", slog.Uint64("seconds", uint64(secs)))
	}
	return secs
}

func (d *Driver) query(ctx context.Context) (uint32, error) {
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()

	secs, err := d.backend.Elapsed(ctx, d.handle)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return secs, nil
}

// Stop kills the player and resets elapsed time. The queue position is kept.
func (d *Driver) Stop() {
	d.kill()
	d.playing = false
	d.elapsed = 0
	d.duration = 0
}

// Close kills any live player process. Safe to call more than once.
func (d *Driver) Close() error {
	if d.handle == "" {
		d.playing = false
		return nil
	}
	h := d.handle
	d.handle = ""
	d.playing = false
	return d.backend.Kill(h)
}

func (d *Driver) kill() {
	if d.handle == "" {
		return
	}
	if err := d.backend.Kill(d.handle); err != nil {
		d.log.Debug("kill player", slog.Any("error", err))
	}
	d.handle = ""
}
