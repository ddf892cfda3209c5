package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/mpvq/internal/controller"
	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/media"
	"github.com/olivier-w/mpvq/internal/selection"
	"github.com/olivier-w/mpvq/internal/util"
)

const (
	statusTTL   = 5 * time.Second
	loadTimeout = 2 * time.Minute
)

var clipboardWriteAll = clipboard.WriteAll

// Options configures the player screen.
type Options struct {
	// Loader loads playlists added at runtime. Nil disables adding.
	Loader *library.Loader
	// Added delivers playlist files that appear in the library directory.
	Added  <-chan string
	Logger *slog.Logger
}

// Model is the Bubbletea model for the mpvq player screen. All engine state
// lives in the controller and is only touched from Update.
type Model struct {
	ctrl   *controller.Controller
	loader *library.Loader
	added  <-chan string
	log    *slog.Logger

	keys   keyMap
	help   help.Model
	bar    smoothBar
	input  textinput.Model
	adding bool

	width    int
	height   int
	quitting bool
	loading  int

	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// New creates the player screen over ctrl.
func New(ctrl *controller.Controller, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	in := textinput.New()
	in.Placeholder = "https://..."
	in.Prompt = "add playlist url: "
	in.CharLimit = 2048

	return Model{
		ctrl:   ctrl,
		loader: opts.Loader,
		added:  opts.Added,
		log:    log,
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    newSmoothBar(),
		input:  in,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(0), m.waitForAdded(), tea.SetWindowTitle("mpvq"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)

	case tickMsg:
		if err := m.ctrl.Tick(context.Background(), msg.counter); err != nil {
			m.setError(err)
		}
		m.bar.step(progressRatio(m.ctrl.View()))
		if m.statusMsg != "" && time.Since(m.statusTime) > statusTTL {
			m.statusMsg = ""
		}
		return m, tickCmd(msg.counter + 1)

	case playlistsLoadedMsg:
		m.loading--
		if msg.err != nil {
			m.setError(fmt.Errorf("loading %s: %w", msg.source, msg.err))
			return m, nil
		}
		for _, p := range msg.playlists {
			m.ctrl.AddPlaylist(p)
		}
		m.setStatus(fmt.Sprintf("added %d playlist(s) from %s", len(msg.playlists), msg.source))
		return m, nil

	case playlistFileAddedMsg:
		if m.loader == nil {
			return m, m.waitForAdded()
		}
		m.loading++
		return m, tea.Batch(m.loadCmd(string(msg)), m.waitForAdded())

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("copy failed: %w", msg.err))
		} else {
			m.setStatus("copied " + msg.url)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-24, 10)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Add):
		if m.loader == nil {
			return m, nil
		}
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	}

	cmd, ok := m.keys.command(msg)
	if !ok {
		return m, nil
	}
	if err := m.ctrl.Handle(context.Background(), cmd); err != nil {
		m.setError(err)
	}
	if m.ctrl.Quitting() {
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	return m, tea.SetWindowTitle(windowTitle(m.ctrl.View()))
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			return m, nil
		}
		if !media.IsURL(raw) {
			m.setError(fmt.Errorf("not a playlist url: %s", raw))
			return m, nil
		}
		m.loading++
		m.setStatus("loading " + raw)
		return m, m.loadCmd(raw)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) loadCmd(source string) tea.Cmd {
	loader := *m.loader
	loader.OnProgress = nil
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		playlists, err := loader.LoadSource(ctx, source)
		return playlistsLoadedMsg{source: source, playlists: playlists, err: err}
	}
}

func (m Model) waitForAdded() tea.Cmd {
	if m.added == nil {
		return nil
	}
	added := m.added
	return func() tea.Msg {
		path, ok := <-added
		if !ok {
			return nil
		}
		return playlistFileAddedMsg(path)
	}
}

func (m Model) copyCmd() tea.Cmd {
	url := selectedURL(m.ctrl.View())
	if url == "" {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{url: url, err: clipboardWriteAll(url)}
	}
}

// selectedURL is the URL of the highlighted track in the focused pane, or of
// the playing track when the playlist pane has focus.
func selectedURL(v controller.View) string {
	switch v.Focus {
	case selection.Queue:
		if v.QueueRow >= 0 && v.QueueRow < len(v.Queue) {
			return v.Queue[v.QueueRow].URL
		}
	case selection.Tracks:
		if v.TrackRow >= 0 && v.TrackRow < len(v.Tracks) {
			return v.Tracks[v.TrackRow].URL
		}
	default:
		if v.HasTrack {
			return v.NowPlaying.URL
		}
	}
	return ""
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setError(err error) {
	m.log.Warn("command failed", slog.Any("error", err))
	m.statusMsg = err.Error()
	m.statusErr = true
	m.statusTime = time.Now()
}

func progressRatio(v controller.View) float64 {
	if !v.HasTrack || v.NowPlaying.Duration == 0 {
		return 0
	}
	return float64(v.Elapsed) / float64(v.NowPlaying.Duration)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.ctrl.View()

	w := m.width
	if w < 48 {
		w = 90
	}
	h := m.height
	if h < 16 {
		h = 24
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("mpvq"))
	if m.loading > 0 {
		b.WriteString(helpStyle.Render("  loading..."))
	}
	b.WriteString("\n")

	panes := paneData{
		playlists: pane{
			title:    "Playlists",
			rows:     v.Playlists,
			selected: v.PlaylistRow,
			current:  selection.None,
			focused:  v.Focus == selection.Playlists,
		},
		tracks: pane{
			title:    "Tracks",
			rows:     trackRows(v.Tracks),
			selected: v.TrackRow,
			current:  selection.None,
			focused:  v.Focus == selection.Tracks,
		},
		queue: pane{
			title:    fmt.Sprintf("Queue (%d)", len(v.Queue)),
			rows:     queueRows(v.Queue, v.Current),
			selected: v.QueueRow,
			current:  v.Current,
			focused:  v.Focus == selection.Queue,
		},
	}
	b.WriteString(renderPanes(panes, w, h-9))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(nowPlayingLine(v))
	b.WriteString("\n")

	elapsed := timeStyle.Render(util.FormatProgress(v.Elapsed, v.NowPlaying.Duration))
	if !v.HasTrack {
		elapsed = timeStyle.Render(util.FormatProgress(0, 0))
	}
	b.WriteString("  ")
	b.WriteString(elapsed)
	b.WriteString(" ")
	b.WriteString(m.bar.view(w - 20))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(statusStyle.Render(statusLine(v)))
	b.WriteString("\n")

	switch {
	case m.adding:
		b.WriteString("  ")
		b.WriteString(m.input.View())
	case m.statusErr && m.statusMsg != "":
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(m.statusMsg))
	}
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func nowPlayingLine(v controller.View) string {
	if !v.HasTrack {
		return artistStyle.Render("no song playing")
	}
	t := v.NowPlaying
	if t.Artist == "" {
		return titleStyle.Render(t.Title)
	}
	return artistStyle.Render(t.Artist+" - ") + titleStyle.Render(t.Title)
}

func statusLine(v controller.View) string {
	state := "■  stopped"
	switch {
	case v.Paused:
		state = "❚❚ paused"
	case v.Playing:
		state = "▶  playing"
	}
	return fmt.Sprintf("%s   shuffle %s   repeat %s", state, v.Shuffle, v.Repeat)
}

func windowTitle(v controller.View) string {
	if !v.HasTrack {
		return "mpvq"
	}
	title := "▶ " + v.NowPlaying.Label()
	if v.Paused {
		title = "⏸ " + v.NowPlaying.Label()
	}
	for _, mode := range []string{v.Shuffle.Icon(), v.Repeat.Icon()} {
		if mode != "" {
			title += " " + mode
		}
	}
	return title + " · mpvq"
}
