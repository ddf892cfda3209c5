// Package resolver turns locations (local paths and URLs) into track
// metadata and expands playlist locations into their entries.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/olivier-w/mpvq/internal/media"
)

// ErrResolve wraps every failure to resolve or expand a location.
var ErrResolve = errors.New("cannot resolve")

// Metadata is what a resolver knows about one playable location.
type Metadata struct {
	Title    string
	Artist   string
	Duration uint32 // seconds, 0 when unknown
}

// Resolver looks up metadata and expands playlists.
type Resolver interface {
	Resolve(ctx context.Context, location string) (Metadata, error)
	ExpandPlaylist(ctx context.Context, location string) ([]string, error)
}

// Dispatcher picks a resolver by location: local files are probed directly,
// playlist URLs are fetched over HTTP, and every other URL goes to yt-dlp,
// with radio streams yt-dlp cannot describe named from their ICY headers.
type Dispatcher struct {
	Local  *Local
	Remote *Remote
	YTDLP  *YTDLP
	ICY    *ICY
	log    *slog.Logger
}

// Config configures a Dispatcher.
type Config struct {
	YTDLPBinary string
}

// New creates a Dispatcher with the default resolvers.
func New(cfg Config, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		Local:  &Local{},
		Remote: NewRemote(),
		YTDLP:  &YTDLP{Binary: cfg.YTDLPBinary},
		ICY:    NewICY(),
		log:    log,
	}
}

// Resolve returns metadata for a local file or a URL.
func (d *Dispatcher) Resolve(ctx context.Context, location string) (Metadata, error) {
	if !media.IsURL(location) {
		return d.Local.Resolve(ctx, location)
	}
	if isRemotePlaylistURL(location) {
		return Metadata{}, fmt.Errorf("%w: %s is a playlist", ErrResolve, location)
	}
	m, err := d.YTDLP.Resolve(ctx, location)
	if err == nil || d.ICY == nil {
		return m, err
	}
	if icy, ierr := d.ICY.Resolve(ctx, location); ierr == nil {
		return icy, nil
	}
	return Metadata{}, err
}

// ExpandPlaylist returns the locations listed by a playlist.
func (d *Dispatcher) ExpandPlaylist(ctx context.Context, location string) ([]string, error) {
	entries, err := d.ExpandEntries(ctx, location)
	if err != nil {
		return nil, err
	}
	return locations(entries), nil
}

func locations(entries []media.Entry) []string {
	return lo.Map(entries, func(e media.Entry, _ int) string { return e.Location })
}

// ExpandEntries is ExpandPlaylist keeping whatever titles and durations
// the playlist itself carries.
func (d *Dispatcher) ExpandEntries(ctx context.Context, location string) ([]media.Entry, error) {
	switch {
	case !media.IsURL(location):
		return d.Local.ExpandEntries(ctx, location)
	case isRemotePlaylistURL(location):
		return d.Remote.ExpandEntries(ctx, location)
	default:
		entries, err := d.YTDLP.ExpandEntries(ctx, location)
		if err != nil {
			// Not every URL yt-dlp rejects is hopeless: some playlists are
			// served without a telling extension.
			d.log.Debug("yt-dlp expansion failed, trying HTTP", slog.String("url", location), slog.Any("error", err))
			if remote, rerr := d.Remote.ExpandEntries(ctx, location); rerr == nil {
				return remote, nil
			}
			return nil, err
		}
		return entries, nil
	}
}

// IsPlaylist reports whether location names a playlist rather than a track.
func IsPlaylist(location string) bool {
	if media.IsURL(location) {
		return isRemotePlaylistURL(location) || isYouTubePlaylistURL(location)
	}
	return media.IsPlaylistExt(filepath.Ext(location))
}

func resolveErr(location string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrResolve, location, err)
}
