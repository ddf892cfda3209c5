package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/mpvq/internal/library"
)

type loadStatus struct {
	name  string
	done  int
	total int
}

type startupStatusMsg loadStatus

type startupLoadedMsg struct {
	playlists []library.Playlist
	err       error
}

// startupModel shows loading progress while the library is resolved, then
// hands over to the player screen that build returns.
type startupModel struct {
	loader   *library.Loader
	sources  []string
	build    func([]library.Playlist) tea.Model
	spinner  spinner.Model
	progress progress.Model
	status   loadStatus
	statusCh chan loadStatus
	width    int
	height   int
	err      error
	quitting bool
}

func newStartupModel(loader *library.Loader, sources []string, build func([]library.Playlist) tea.Model) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	return startupModel{
		loader:   loader,
		sources:  sources,
		build:    build,
		spinner:  s,
		progress: p,
		statusCh: make(chan loadStatus, 16),
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStatus(), m.loadCmd())
}

func (m startupModel) loadCmd() tea.Cmd {
	loader := *m.loader
	statusCh := m.statusCh
	sources := m.sources
	loader.OnProgress = func(name string, done, total int) {
		select {
		case statusCh <- loadStatus{name: name, done: done, total: total}:
		default:
		}
	}
	return func() tea.Msg {
		defer close(statusCh)
		playlists, err := loadSources(context.Background(), &loader, sources)
		return startupLoadedMsg{playlists: playlists, err: err}
	}
}

func (m startupModel) waitForStatus() tea.Cmd {
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupStatusMsg(status)
	}
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-16, 20), 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupStatusMsg:
		m.status = loadStatus(msg)
		return m, m.waitForStatus()

	case startupLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		model := m.build(msg.playlists)
		cmds := []tea.Cmd{model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if startupIsQuit(msg) {
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}
	return m, nil
}

func (m startupModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("mpvq"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.status.name == "" {
		b.WriteString(startupStatusStyle.Render("Loading library..."))
		b.WriteString("\n")
	} else {
		b.WriteString(startupStatusStyle.Render("Loading " + m.status.name + "..."))
		b.WriteString("\n  ")
		var pct float64
		if m.status.total > 0 {
			pct = float64(m.status.done) / float64(m.status.total)
		}
		b.WriteString(m.progress.ViewAs(pct))
		b.WriteString(fmt.Sprintf("  %d/%d\n", m.status.done, m.status.total))
	}
	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
