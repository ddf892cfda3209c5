package library

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/olivier-w/mpvq/internal/media"
	"github.com/olivier-w/mpvq/internal/resolver"
)

// EntryResolver is the part of the resolver the loader needs.
type EntryResolver interface {
	Resolve(ctx context.Context, location string) (resolver.Metadata, error)
	ExpandEntries(ctx context.Context, location string) ([]media.Entry, error)
}

// Loader builds playlists from directories, playlist files and URLs.
type Loader struct {
	Resolver EntryResolver
	Log      *slog.Logger
	// OnProgress, if set, is called after each track is resolved.
	OnProgress func(name string, done, total int)
}

// PlaylistFiles lists the playlist files directly inside dir, sorted by name.
func PlaylistFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading library directory: %w", err)
	}
	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && media.IsPlaylistExt(filepath.Ext(e.Name()))
	})
	return lo.Map(files, func(e os.DirEntry, _ int) string {
		return filepath.Join(dir, e.Name())
	}), nil
}

// LoadSource loads every playlist a command-line source names. A directory
// yields one playlist per playlist file inside it, plus one for loose media
// files. A playlist file or URL yields one playlist.
func (l *Loader) LoadSource(ctx context.Context, src string) ([]Playlist, error) {
	if media.IsURL(src) {
		p, err := l.LoadPlaylist(ctx, src)
		if err != nil {
			return nil, err
		}
		return []Playlist{p}, nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !media.IsPlaylistExt(filepath.Ext(src)) {
			return nil, fmt.Errorf("%s is not a playlist or directory", src)
		}
		p, err := l.LoadPlaylist(ctx, src)
		if err != nil {
			return nil, err
		}
		return []Playlist{p}, nil
	}

	files, err := PlaylistFiles(src)
	if err != nil {
		return nil, err
	}
	var playlists []Playlist
	for _, f := range files {
		p, err := l.LoadPlaylist(ctx, f)
		if err != nil {
			l.log().Warn("skipping playlist", slog.String("path", f), slog.Any("error", err))
			continue
		}
		playlists = append(playlists, p)
	}

	loose, err := l.loadLooseFiles(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(loose.Tracks) > 0 {
		playlists = append(playlists, loose)
	}
	return playlists, nil
}

func (l *Loader) loadLooseFiles(ctx context.Context, dir string) (Playlist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Playlist{}, fmt.Errorf("reading library directory: %w", err)
	}
	loose := lo.FilterMap(entries, func(e os.DirEntry, _ int) (media.Entry, bool) {
		if e.IsDir() || !media.IsSupportedExt(filepath.Ext(e.Name())) {
			return media.Entry{}, false
		}
		return media.Entry{Location: filepath.Join(dir, e.Name())}, true
	})
	name := filepath.Base(dir)
	return Playlist{Name: name, Tracks: l.tracks(ctx, name, loose)}, nil
}

// LoadPlaylist expands one playlist file or URL and resolves its entries.
// Entries that cannot be resolved are skipped with a warning.
func (l *Loader) LoadPlaylist(ctx context.Context, location string) (Playlist, error) {
	entries, err := l.Resolver.ExpandEntries(ctx, location)
	if err != nil {
		return Playlist{}, err
	}
	name := PlaylistName(location)
	tracks := l.tracks(ctx, name, entries)
	if len(tracks) == 0 {
		return Playlist{}, fmt.Errorf("%w: %s has no playable tracks", resolver.ErrResolve, location)
	}
	return Playlist{Name: name, Tracks: tracks}, nil
}

// ResolveTrack builds a Track for one entry, asking the resolver only for
// what the playlist did not already say.
func (l *Loader) ResolveTrack(ctx context.Context, e media.Entry) (Track, error) {
	t := Track{Title: e.Title, Duration: e.Duration, URL: e.Location}
	if t.Title != "" && t.Duration > 0 {
		t.Artist, t.Title = splitArtist(t.Title)
		return t, nil
	}

	m, err := l.Resolver.Resolve(ctx, e.Location)
	if err != nil {
		if t.Title == "" {
			return Track{}, err
		}
		// The playlist named it; play it with an unknown length.
		t.Artist, t.Title = splitArtist(t.Title)
		return t, nil
	}
	if t.Title == "" {
		t.Title, t.Artist = m.Title, m.Artist
	} else {
		t.Artist, t.Title = splitArtist(t.Title)
		if m.Artist != "" && t.Artist == "" {
			t.Artist = m.Artist
		}
	}
	if t.Duration == 0 {
		t.Duration = m.Duration
	}
	return t, nil
}

func (l *Loader) tracks(ctx context.Context, name string, entries []media.Entry) []Track {
	tracks := make([]Track, 0, len(entries))
	for i, e := range entries {
		if ctx.Err() != nil {
			break
		}
		t, err := l.ResolveTrack(ctx, e)
		if err != nil {
			l.log().Warn("skipping track",
				slog.String("playlist", name),
				slog.String("location", e.Location),
				slog.Any("error", err))
		} else {
			tracks = append(tracks, t)
		}
		if l.OnProgress != nil {
			l.OnProgress(name, i+1, len(entries))
		}
	}
	return tracks
}

func (l *Loader) log() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}

// splitArtist splits "Artist - Title" as m3u files commonly write it.
func splitArtist(s string) (artist, title string) {
	if a, t, ok := strings.Cut(s, " - "); ok && strings.TrimSpace(a) != "" && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return "", s
}

// PlaylistName derives a display name from a playlist path or URL.
func PlaylistName(location string) string {
	if !media.IsURL(location) {
		return media.TitleFromPath(location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	if list := u.Query().Get("list"); list != "" {
		return list
	}
	base := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if base == "" || base == "." || base == "/" {
		return u.Host
	}
	return base
}
