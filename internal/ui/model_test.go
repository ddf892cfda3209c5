package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/olivier-w/mpvq/internal/controller"
	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/logger"
	"github.com/olivier-w/mpvq/internal/playback"
	"github.com/olivier-w/mpvq/internal/queue"
)

type fakeBackend struct {
	n       int
	live    playback.Handle
	played  []string
	killed  int
	elapsed uint32
	playErr error
}

func (f *fakeBackend) Play(_ context.Context, url string) (playback.Handle, error) {
	if f.playErr != nil {
		return "", f.playErr
	}
	f.n++
	f.live = playback.Handle(fmt.Sprint(f.n))
	f.played = append(f.played, url)
	return f.live, nil
}

func (f *fakeBackend) Pause(playback.Handle) error  { return nil }
func (f *fakeBackend) Resume(playback.Handle) error { return nil }

func (f *fakeBackend) Kill(h playback.Handle) error {
	if h == f.live {
		f.live = ""
		f.killed++
	}
	return nil
}

func (f *fakeBackend) Elapsed(context.Context, playback.Handle) (uint32, error) {
	return f.elapsed, nil
}

func (f *fakeBackend) Duration(context.Context, playback.Handle) (uint32, error) {
	return 0, nil
}

func newTestModel(t *testing.T, opts Options) (Model, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	lib := library.New(library.Playlist{
		Name: "mix",
		Tracks: []library.Track{
			{Title: "A", Artist: "Band", Duration: 10, URL: "https://example.com/a"},
			{Title: "B", Duration: 20, URL: "https://example.com/b"},
		},
	})
	ctrl := controller.New(lib, b, controller.Options{Logger: logger.NewTestLogger()})
	t.Cleanup(func() { _ = ctrl.Close() })
	opts.Logger = logger.NewTestLogger()
	return New(ctrl, opts), b
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return m.handleMsg(msg)
}

func TestEnterOnPlaylistStartsPlayback(t *testing.T) {
	m, b := newTestModel(t, Options{})

	m, _ = press(m, "enter")
	if len(b.played) != 1 || b.played[0] != "https://example.com/a" {
		t.Fatalf("expected first track to play, got %v", b.played)
	}
	view := m.View()
	if !strings.Contains(view, "Band") || !strings.Contains(view, "playing") {
		t.Fatalf("expected now playing in view, got %q", view)
	}
}

func TestTickSchedulesNextTick(t *testing.T) {
	m, b := newTestModel(t, Options{})
	m, _ = press(m, "enter")
	b.elapsed = 5

	next, cmd := m.handleMsg(tickMsg{counter: 3})
	if cmd == nil {
		t.Fatal("expected next tick to be scheduled")
	}
	if got := next.ctrl.View().Elapsed; got != 5 {
		t.Fatalf("expected polled elapsed 5, got %d", got)
	}
	if next.bar.pos <= 0 {
		t.Fatalf("expected progress bar to move, got %v", next.bar.pos)
	}
}

func TestQuitKillsPlayer(t *testing.T) {
	m, b := newTestModel(t, Options{})
	m, _ = press(m, "enter")

	m, cmd := press(m, "q")
	if !m.quitting {
		t.Fatal("expected quitting state")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if b.live != "" || b.killed != 1 {
		t.Fatalf("expected live process killed, live=%q killed=%d", b.live, b.killed)
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestSpawnFailureShownInStatus(t *testing.T) {
	m, b := newTestModel(t, Options{})
	b.playErr = errors.New("exec: mpv not found")

	m, _ = press(m, "enter")
	if !m.statusErr || !strings.Contains(m.statusMsg, "mpv not found") {
		t.Fatalf("expected spawn error in status, got %q", m.statusMsg)
	}
	if !strings.Contains(m.View(), "no song playing") {
		t.Fatal("expected idle now-playing line")
	}
}

func TestPlaylistsLoadedAppendsToLibrary(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.loading = 1

	m, _ = m.handleMsg(playlistsLoadedMsg{
		source:    "https://example.com/new.m3u",
		playlists: []library.Playlist{{Name: "new", Tracks: []library.Track{{Title: "C"}}}},
	})
	if m.loading != 0 {
		t.Fatalf("expected loading counter to drop, got %d", m.loading)
	}
	if got := m.ctrl.View().Playlists; len(got) != 2 || got[1] != "new" {
		t.Fatalf("expected appended playlist, got %v", got)
	}
}

func TestPlaylistsLoadedError(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.loading = 1
	m, _ = m.handleMsg(playlistsLoadedMsg{source: "x.m3u", err: errors.New("boom")})
	if !m.statusErr || !strings.Contains(m.statusMsg, "loading x.m3u: boom") {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
}

func TestWatcherPathIgnoredWithoutLoader(t *testing.T) {
	added := make(chan string)
	close(added)
	m, _ := newTestModel(t, Options{Added: added})

	m, cmd := m.handleMsg(playlistFileAddedMsg("/lib/new.m3u"))
	if m.loading != 0 {
		t.Fatal("expected no load without a loader")
	}
	if cmd == nil {
		t.Fatal("expected watcher to be re-armed")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("expected nil message from closed channel, got %#v", msg)
	}
}

func TestAddURLPrompt(t *testing.T) {
	m, _ := newTestModel(t, Options{Loader: &library.Loader{}})

	m, _ = press(m, "a")
	if !m.adding {
		t.Fatal("expected prompt to open")
	}
	m.input.SetValue("not a url")
	m, cmd := press(m, "enter")
	if cmd != nil || !m.statusErr {
		t.Fatalf("expected rejected input, status %q", m.statusMsg)
	}

	m, _ = press(m, "a")
	m.input.SetValue("https://example.com/list.m3u")
	m, cmd = press(m, "enter")
	if cmd == nil || m.loading != 1 || m.adding {
		t.Fatalf("expected load to start, loading=%d adding=%v", m.loading, m.adding)
	}
}

func TestAddURLPromptEscKeepsPlaying(t *testing.T) {
	m, b := newTestModel(t, Options{Loader: &library.Loader{}})
	m, _ = press(m, "enter")
	m, _ = press(m, "a")
	m, _ = press(m, "esc")
	if m.adding || m.quitting {
		t.Fatal("expected esc to close only the prompt")
	}
	if b.live == "" {
		t.Fatal("expected playback to continue")
	}
}

func TestCopySelectedTrackURL(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, _ := newTestModel(t, Options{})
	m, _ = press(m, "l")
	m, _ = press(m, "j")
	_, cmd := press(m, "y")
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	msg, ok := cmd().(copiedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	if copied != "https://example.com/b" {
		t.Fatalf("expected second track url, got %q", copied)
	}
}

func TestStatusLineShowsModes(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = press(m, "s")
	m, _ = press(m, "r")
	view := m.View()
	if !strings.Contains(view, "shuffle on") || !strings.Contains(view, "repeat one") {
		t.Fatalf("expected mode names in status, got %q", view)
	}
}

func TestViewFitsWindowHeight(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 100, Height: 30})
	if h := lipgloss.Height(m.View()); h > 30 {
		t.Fatalf("expected view to fit 30 rows, got %d", h)
	}
}

func TestSmoothBarSnapsBackward(t *testing.T) {
	s := newSmoothBar()
	for range 20 {
		s.step(0.8)
	}
	if s.pos < 0.5 {
		t.Fatalf("expected bar to approach target, got %v", s.pos)
	}
	s.step(0.1)
	if s.pos != 0.1 || s.vel != 0 {
		t.Fatalf("expected snap to 0.1, got pos=%v vel=%v", s.pos, s.vel)
	}
}

func TestFitUsesCellWidth(t *testing.T) {
	got := fit("日本語のタイトル", 7)
	if w := runewidth.StringWidth(got); w != 7 {
		t.Fatalf("expected width 7, got %d (%q)", w, got)
	}
	if got := fit("ab", 4); got != "ab  " {
		t.Fatalf("expected padding, got %q", got)
	}
}

func TestWindowTitleShowsModeIcons(t *testing.T) {
	v := controller.View{
		HasTrack:   true,
		NowPlaying: library.Track{Title: "A", Artist: "Band"},
		Shuffle:    queue.ShuffleOn,
		Repeat:     queue.RepeatOne,
	}
	want := "▶ " + v.NowPlaying.Label() + " [shuffle] [repeat one] · mpvq"
	if got := windowTitle(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	v.Paused = true
	v.Shuffle = queue.ShuffleOff
	v.Repeat = queue.RepeatOff
	want = "⏸ " + v.NowPlaying.Label() + " · mpvq"
	if got := windowTitle(v); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := windowTitle(controller.View{}); got != "mpvq" {
		t.Fatalf("expected bare title when idle, got %q", got)
	}
}
