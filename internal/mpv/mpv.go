// Package mpv runs mpv as the player backend and talks to it over its JSON
// IPC socket.
package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/dexterlb/mpvipc"
	"github.com/google/uuid"

	"github.com/olivier-w/mpvq/internal/playback"
)

// SocketPrefix starts the name of every IPC socket this program creates.
// Cleanup uses it to tell our mpv processes from anyone else's.
const SocketPrefix = "mpvq-"

const (
	reapTimeout    = 2 * time.Second
	controlTimeout = time.Second
)

// ErrUnknownHandle is returned for handles that were never started or are already killed.
var ErrUnknownHandle = errors.New("unknown player handle")

// proc is the part of a started process the backend needs.
type proc interface {
	Kill() error
	Wait() error
}

type execProc struct{ cmd *exec.Cmd }

func (p execProc) Kill() error { return p.cmd.Process.Kill() }
func (p execProc) Wait() error { return p.cmd.Wait() }

var (
	lookPath     = exec.LookPath
	startProcess = func(path string, args []string) (proc, error) {
		cmd := exec.Command(path, args...)
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return execProc{cmd: cmd}, nil
	}
)

// Config configures the mpv backend.
type Config struct {
	Binary    string   // defaults to "mpv"
	SocketDir string   // defaults to os.TempDir()
	ExtraArgs []string // appended before the URL
}

type session struct {
	proc   proc
	socket string
	done   chan struct{}

	mu  sync.Mutex
	ipc *mpvipc.Connection
}

// conn returns the session's IPC connection, dialing it on first use. mpv
// creates its socket shortly after starting, so early calls can fail.
func (s *session) conn() (*mpvipc.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ipc != nil {
		return s.ipc, nil
	}
	c := mpvipc.NewConnection(s.socket)
	if err := c.Open(); err != nil {
		return nil, fmt.Errorf("dial mpv: %w", err)
	}
	s.ipc = c
	return c, nil
}

func (s *session) closeConn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ipc != nil {
		_ = s.ipc.Close()
		s.ipc = nil
	}
}

// call runs fn against the IPC connection. mpvipc blocks until mpv answers,
// so the context and process exit bound the wait here.
func (s *session) call(ctx context.Context, fn func(*mpvipc.Connection) (any, error)) (any, error) {
	select {
	case <-s.done:
		return nil, fmt.Errorf("mpv: %w", playback.ErrExited)
	default:
	}
	c, err := s.conn()
	if err != nil {
		return nil, err
	}

	type result struct {
		data any
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := fn(c)
		ch <- result{data, err}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-s.done:
		return nil, fmt.Errorf("mpv: %w", playback.ErrExited)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// seconds reads a numeric property in whole seconds. mpv answers null for
// properties it does not know yet.
func (s *session) seconds(ctx context.Context, property string) (uint32, error) {
	data, err := s.call(ctx, func(c *mpvipc.Connection) (any, error) {
		return c.Get(property)
	})
	if err != nil {
		return 0, err
	}
	v, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: property unavailable", property)
	}
	return uint32(max(v, 0)), nil
}

// Backend starts one mpv process per track.
type Backend struct {
	cfg Config
	log *slog.Logger

	mu       sync.Mutex
	sessions map[playback.Handle]*session
}

// New creates a Backend. Nothing is started until Play.
func New(cfg Config, log *slog.Logger) *Backend {
	if cfg.Binary == "" {
		cfg.Binary = "mpv"
	}
	if cfg.SocketDir == "" {
		cfg.SocketDir = os.TempDir()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Backend{cfg: cfg, log: log, sessions: make(map[playback.Handle]*session)}
}

// Args returns the mpv command line for url using socket for IPC.
func (b *Backend) Args(socket, url string) []string {
	args := []string{
		"--input-ipc-server=" + socket,
		"--no-video",
		"--no-terminal",
		"--idle=no",
	}
	args = append(args, b.cfg.ExtraArgs...)
	return append(args, "--", url)
}

// Play starts mpv on url. The process is reaped in the background.
func (b *Backend) Play(_ context.Context, url string) (playback.Handle, error) {
	path, err := lookPath(b.cfg.Binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", b.cfg.Binary, err)
	}

	id := uuid.New().String()
	socket := filepath.Join(b.cfg.SocketDir, SocketPrefix+id+".sock")
	p, err := startProcess(path, b.Args(socket, url))
	if err != nil {
		return "", fmt.Errorf("start %s: %w", b.cfg.Binary, err)
	}

	s := &session{proc: p, socket: socket, done: make(chan struct{})}
	h := playback.Handle(id)
	go func() {
		err := p.Wait()
		b.log.Debug("mpv exited", slog.String("handle", id), slog.Any("error", err))
		close(s.done)
	}()

	b.mu.Lock()
	b.sessions[h] = s
	b.mu.Unlock()

	b.log.Debug("mpv started", slog.String("handle", id), slog.String("socket", socket))
	return h, nil
}

func (b *Backend) session(h playback.Handle) (*session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[h]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandle, h)
	}
	return s, nil
}

// Pause pauses playback without stopping the process.
func (b *Backend) Pause(h playback.Handle) error {
	return b.setPause(h, true)
}

// Resume continues a paused process.
func (b *Backend) Resume(h playback.Handle) error {
	return b.setPause(h, false)
}

func (b *Backend) setPause(h playback.Handle, paused bool) error {
	s, err := b.session(h)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	_, err = s.call(ctx, func(c *mpvipc.Connection) (any, error) {
		return nil, c.Set("pause", paused)
	})
	return err
}

// Elapsed returns mpv's time-pos in whole seconds. Once mpv has exited the
// error wraps playback.ErrExited.
func (b *Backend) Elapsed(ctx context.Context, h playback.Handle) (uint32, error) {
	s, err := b.session(h)
	if err != nil {
		return 0, err
	}
	return s.seconds(ctx, "time-pos")
}

// Duration returns mpv's duration property in whole seconds. Live streams
// report none.
func (b *Backend) Duration(ctx context.Context, h playback.Handle) (uint32, error) {
	s, err := b.session(h)
	if err != nil {
		return 0, err
	}
	return s.seconds(ctx, "duration")
}

// Kill stops the process, waits for it to be reaped and removes its socket.
// Killing a handle that already exited is not an error.
func (b *Backend) Kill(h playback.Handle) error {
	b.mu.Lock()
	s, ok := b.sessions[h]
	delete(b.sessions, h)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	return b.stop(s)
}

// Close kills every process this backend started.
func (b *Backend) Close() error {
	b.mu.Lock()
	sessions := make([]*session, 0, len(b.sessions))
	for h, s := range b.sessions {
		sessions = append(sessions, s)
		delete(b.sessions, h)
	}
	b.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		errs = append(errs, b.stop(s))
	}
	return errors.Join(errs...)
}

func (b *Backend) stop(s *session) error {
	s.closeConn()

	var killErr error
	select {
	case <-s.done:
	default:
		if err := s.proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			killErr = fmt.Errorf("kill mpv: %w", err)
		}
	}

	select {
	case <-s.done:
	case <-time.After(reapTimeout):
		b.log.Warn("mpv did not exit after kill", slog.String("socket", s.socket))
	}

	if err := os.Remove(s.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.log.Debug("remove socket", slog.String("socket", s.socket), slog.Any("error", err))
	}
	return killErr
}
