package library

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/olivier-w/mpvq/internal/media"
)

const (
	settleDelay  = 300 * time.Millisecond
	pollInterval = 100 * time.Millisecond
)

// Watcher reports playlist files that appear in a library directory.
// Each path is reported once, after writes to it have gone quiet, since the
// library only ever grows.
type Watcher struct {
	fsw    *fsnotify.Watcher
	log    *slog.Logger
	out    chan string
	done   chan struct{}
	wg     sync.WaitGroup
	closed sync.Once

	known map[string]bool
}

// NewWatcher starts watching dir. existing are paths already loaded; they
// are never reported.
func NewWatcher(dir string, existing []string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:   fsw,
		log:   log,
		out:   make(chan string, 16),
		done:  make(chan struct{}),
		known: make(map[string]bool, len(existing)),
	}
	for _, p := range existing {
		w.known[filepath.Clean(p)] = true
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Added delivers the path of each new playlist file. It is closed by Close.
func (w *Watcher) Added() <-chan string {
	return w.out
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.out)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	pending := make(map[string]time.Time)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if w.known[path] || !media.IsPlaylistExt(filepath.Ext(path)) {
				continue
			}
			pending[path] = time.Now()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("library watch error", slog.Any("error", err))

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				w.known[path] = true
				select {
				case w.out <- path:
				case <-w.done:
					return
				}
			}
		}
	}
}

// Close stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closed.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
