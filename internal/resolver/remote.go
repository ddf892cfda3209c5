package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olivier-w/mpvq/internal/media"
)

const (
	remoteFetchTimeout = 10 * time.Second
	remoteBodyLimit    = 1 << 20
)

// Remote expands m3u and pls playlists served over HTTP.
type Remote struct {
	Client *http.Client
}

// NewRemote creates a Remote with a bounded HTTP client.
func NewRemote() *Remote {
	return &Remote{Client: &http.Client{Timeout: remoteFetchTimeout}}
}

// ExpandPlaylist lists the locations of a remote playlist.
func (r *Remote) ExpandPlaylist(ctx context.Context, rawURL string) ([]string, error) {
	entries, err := r.ExpandEntries(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return locations(entries), nil
}

// ExpandEntries downloads and parses a remote playlist. An HLS media
// playlist is a single live stream, so it comes back as one entry.
func (r *Remote) ExpandEntries(ctx context.Context, rawURL string) ([]media.Entry, error) {
	body, finalURL, err := r.fetch(ctx, rawURL)
	if err != nil {
		return nil, resolveErr(rawURL, err)
	}
	if hasHLSBodyMarker(body) {
		return []media.Entry{{Location: finalURL}}, nil
	}
	entries := media.ParsePlaylist(body, finalURL)
	if len(entries) == 0 {
		return nil, resolveErr(rawURL, fmt.Errorf("no playable entries"))
	}
	return entries, nil
}

func (r *Remote) fetch(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "mpvq")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, remoteBodyLimit))
	if err != nil {
		return "", "", err
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return string(data), finalURL, nil
}

func isRemotePlaylistURL(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)
	return strings.HasSuffix(path, ".pls") ||
		strings.HasSuffix(path, ".m3u") ||
		strings.HasSuffix(path, ".m3u8")
}

func hasHLSBodyMarker(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "\uFEFF")))
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#EXT-X-") {
			return true
		}
	}
	return false
}
