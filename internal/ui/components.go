package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/selection"
)

// pane is one of the three columns.
type pane struct {
	title    string
	rows     []string
	selected int
	current  int // highlighted as playing; selection.None for none
	focused  bool
}

// render draws the pane into a box of the given outer width and height.
// The visible window scrolls to keep the selected row on screen.
func (p pane) render(width, height int) string {
	inner := max(width-4, 4) // border + padding
	body := max(height-3, 1) // border + title

	lines := make([]string, 0, body+1)
	lines = append(lines, headerStyle.Render(fit(p.title, inner)))

	start := 0
	if p.selected >= body {
		start = p.selected - body + 1
	}
	for i := start; i < len(p.rows) && i < start+body; i++ {
		text := fit(p.rows[i], inner)
		switch {
		case i == p.selected && p.focused:
			lines = append(lines, selectedRowStyle.Render(text))
		case i == p.current:
			lines = append(lines, currentRowStyle.Render(text))
		case i == p.selected:
			lines = append(lines, titleStyle.Render(text))
		default:
			lines = append(lines, rowStyle.Render(text))
		}
	}
	for len(lines) < body+1 {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	style := paneStyle
	if p.focused {
		style = focusedPaneStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// fit truncates or pads s to exactly w terminal cells.
func fit(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

func renderPanes(v paneData, width, height int) string {
	col := max(width/3, 16)
	last := max(width-2*col, 16)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		v.playlists.render(col, height),
		v.tracks.render(col, height),
		v.queue.render(last, height),
	)
}

type paneData struct {
	playlists, tracks, queue pane
}

func trackRows(tracks []library.Track) []string {
	rows := make([]string, len(tracks))
	for i, t := range tracks {
		rows[i] = t.Label()
	}
	return rows
}

func queueRows(tracks []library.Track, current int) []string {
	rows := trackRows(tracks)
	if current != selection.None && current < len(rows) {
		rows[current] = "▶ " + rows[current]
	}
	return rows
}

// smoothBar eases the progress bar between once-per-second elapsed updates.
type smoothBar struct {
	bar    progress.Model
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newSmoothBar() smoothBar {
	return smoothBar{
		bar: progress.New(
			progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
			progress.WithoutPercentage(),
		),
		spring: harmonica.NewSpring(harmonica.FPS(int(time.Second/TickInterval)), 6.0, 1.0),
	}
}

// step advances the spring one frame toward target (0..1). Backward jumps,
// such as a new track starting, snap instead of easing.
func (s *smoothBar) step(target float64) {
	target = min(max(target, 0), 1)
	if target < s.pos {
		s.pos, s.vel = target, 0
		return
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	s.pos = min(max(s.pos, 0), 1)
}

func (s smoothBar) view(width int) string {
	s.bar.Width = max(width, 10)
	return s.bar.ViewAs(s.pos)
}
