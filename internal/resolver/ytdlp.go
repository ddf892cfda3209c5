package resolver

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/GiGurra/cmder"

	"github.com/olivier-w/mpvq/internal/media"
)

const defaultYTDLPTimeout = 30 * time.Second

var (
	ytdlpLookPath = exec.LookPath
	runYTDLP      = func(ctx context.Context, timeout time.Duration, argv ...string) (string, error) {
		res := cmder.New(argv...).
			WithAttemptTimeout(timeout).
			Run(ctx)
		if res.Err != nil {
			return "", fmt.Errorf("%w: %s", res.Err, strings.TrimSpace(res.Combined))
		}
		return res.StdOut, nil
	}
)

// YTDLP resolves web URLs (YouTube and anything else yt-dlp supports)
// without downloading them.
type YTDLP struct {
	Binary  string        // defaults to "yt-dlp"
	Timeout time.Duration // per invocation, defaults to 30s
}

func (y *YTDLP) run(ctx context.Context, args ...string) (string, error) {
	bin := y.Binary
	if bin == "" {
		bin = "yt-dlp"
	}
	path, err := ytdlpLookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%s not found. Install it:\n  macOS:   brew install yt-dlp\n  Linux:   sudo apt install yt-dlp  (or pip install yt-dlp)", bin)
	}
	timeout := y.Timeout
	if timeout <= 0 {
		timeout = defaultYTDLPTimeout
	}
	return runYTDLP(ctx, timeout, append([]string{path}, args...)...)
}

// Resolve asks yt-dlp for the title, channel and duration of a single video.
func (y *YTDLP) Resolve(ctx context.Context, rawURL string) (Metadata, error) {
	out, err := y.run(ctx,
		"--skip-download", "--no-warnings", "--no-playlist",
		"--print", "title",
		"--print", "%(channel,uploader)s",
		"--print", "duration",
		rawURL)
	if err != nil {
		return Metadata{}, resolveErr(rawURL, err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 3 {
		return Metadata{}, resolveErr(rawURL, fmt.Errorf("unexpected yt-dlp output %q", out))
	}
	m := Metadata{
		Title:    field(lines[0]),
		Artist:   field(lines[1]),
		Duration: seconds(lines[2]),
	}
	if m.Title == "" {
		m.Title = rawURL
	}
	return m, nil
}

// ExpandPlaylist lists the video URLs of a playlist.
func (y *YTDLP) ExpandPlaylist(ctx context.Context, rawURL string) ([]string, error) {
	entries, err := y.ExpandEntries(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return locations(entries), nil
}

// ExpandEntries lists a playlist without visiting each video. Flat
// extraction usually still carries title and duration.
func (y *YTDLP) ExpandEntries(ctx context.Context, rawURL string) ([]media.Entry, error) {
	out, err := y.run(ctx,
		"--flat-playlist", "--no-warnings",
		"--print", "%(id)s\t%(url)s\t%(title)s\t%(duration)s",
		rawURL)
	if err != nil {
		return nil, resolveErr(rawURL, err)
	}

	var entries []media.Entry
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(strings.TrimSpace(line), "\t")
		if len(parts) != 4 {
			continue
		}
		loc := field(parts[1])
		if !media.IsURL(loc) {
			id := field(parts[0])
			if id == "" {
				continue
			}
			loc = "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
		}
		entries = append(entries, media.Entry{
			Location: loc,
			Title:    field(parts[2]),
			Duration: seconds(parts[3]),
		})
	}
	if len(entries) == 0 {
		return nil, resolveErr(rawURL, fmt.Errorf("playlist is empty"))
	}
	return entries, nil
}

// field maps yt-dlp's "NA" placeholder to "".
func field(s string) string {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return ""
	}
	return s
}

func seconds(s string) uint32 {
	f, err := strconv.ParseFloat(field(s), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return uint32(f)
}

func isYouTubePlaylistURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Get("list") != "" || strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/playlist")
}
