// Package playback decides when the current track has finished and what
// plays next, and drives an external player process accordingly.
package playback

import (
	"context"
	"errors"
)

var (
	// ErrSpawn is returned when the player process could not be started.
	ErrSpawn = errors.New("player failed to start")
	// ErrQuery is returned when the player did not report its position in time.
	ErrQuery = errors.New("player position query failed")
	// ErrExited is returned by a Backend once the player process has ended,
	// which for a file or a finite stream means the track finished.
	ErrExited = errors.New("player exited")
)

// Handle identifies one running player process. The zero value means none.
type Handle string

// Backend is the external player. Only one process is alive at a time;
// Play is expected to be preceded by Kill of the previous handle.
type Backend interface {
	Play(ctx context.Context, url string) (Handle, error)
	Pause(h Handle) error
	Resume(h Handle) error
	Kill(h Handle) error
	// Elapsed returns the playback position in whole seconds.
	Elapsed(ctx context.Context, h Handle) (uint32, error)
	// Duration returns the track length in whole seconds as the player
	// measured it. Live streams have none.
	Duration(ctx context.Context, h Handle) (uint32, error)
}
