package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/media"
)

// gatherSources lists what to load at startup: the library directory when it
// exists, then the command-line sources. Duplicates are dropped.
func gatherSources(libDir string, args []string) []string {
	var sources []string
	if libDir != "" && isDir(libDir) {
		sources = append(sources, absPath(libDir))
	}
	for _, a := range args {
		if !media.IsURL(a) {
			a = absPath(a)
		}
		sources = append(sources, a)
	}
	return lo.Uniq(sources)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// loadSources loads every source in order. A source that fails is logged and
// skipped; it is an error only when sources were given and none loaded.
func loadSources(ctx context.Context, loader *library.Loader, sources []string) ([]library.Playlist, error) {
	log := loader.Log
	if log == nil {
		log = slog.Default()
	}
	var playlists []library.Playlist
	var errs []error
	for _, src := range sources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		ps, err := loader.LoadSource(ctx, src)
		if err != nil {
			log.Warn("source failed", slog.String("source", src), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}
		playlists = append(playlists, ps...)
	}
	if len(playlists) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return playlists, nil
}
