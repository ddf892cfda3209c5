package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olivier-w/mpvq/internal/controller"
	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/logger"
	"github.com/olivier-w/mpvq/internal/mpv"
	"github.com/olivier-w/mpvq/internal/queue"
	"github.com/olivier-w/mpvq/internal/resolver"
	"github.com/olivier-w/mpvq/internal/ui"
)

// Params are the flags of the root command.
type Params struct {
	Sources      []string `pos:"true" optional:"true" help:"Playlist directories, .m3u/.pls files or playlist URLs."`
	Library      string   `short:"L" optional:"true" help:"Library directory of playlist files (default ~/.config/mpvq/playlists)."`
	Mpv          string   `optional:"true" help:"mpv binary." default:"mpv"`
	Ytdlp        string   `optional:"true" help:"yt-dlp binary." default:"yt-dlp"`
	QueryTimeout int      `optional:"true" help:"Timeout for elapsed-time queries to mpv, in milliseconds." default:"200"`
	LogFile      string   `optional:"true" help:"Log file (default $TMPDIR/mpvq.log)."`
	LogLevel     string   `optional:"true" help:"Log level: debug, info, warn or error."`
	Watch        bool     `optional:"true" help:"Add playlist files that appear in the library directory." default:"true"`
	Shuffle      bool     `optional:"true" help:"Start with shuffle on."`
	Repeat       string   `optional:"true" help:"Initial repeat mode: none, one or all." default:"none"`
}

func main() {
	root := boa.CmdT[Params]{
		Use:         "mpvq [sources...]",
		Short:       "Terminal playlist player backed by mpv",
		Long:        "mpvq browses playlists, builds a play queue from them and plays it through mpv. Sources are playlist directories, local .m3u/.pls files or playlist URLs; the library directory is always loaded when it exists.",
		Version:     appVersion(),
		ParamEnrich: defaultParamEnricher(),
		SubCmds: []*cobra.Command{
			listCmd(),
			cleanupCmd(),
		},
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "mpvq: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
	// Sources share the positional slot with subcommand names.
	if root.Args == nil {
		root.Args = cobra.ArbitraryArgs
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "unknown"
	}
	return bi.Main.Version
}

func run(params *Params) error {
	log, logFile, err := openLog(params.LogFile, params.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	repeat, err := queue.ParseRepeatMode(params.Repeat)
	if err != nil {
		return err
	}
	shuffle := queue.ShuffleOff
	if params.Shuffle {
		shuffle = queue.ShuffleOn
	}

	ctx := context.Background()
	if _, err := mpv.KillOrphans(ctx, log); err != nil {
		log.Warn("orphan cleanup failed", slog.Any("error", err))
	}

	backend := mpv.New(mpv.Config{Binary: params.Mpv}, log)
	defer backend.Close()

	loader := &library.Loader{
		Resolver: resolver.New(resolver.Config{YTDLPBinary: params.Ytdlp}, log),
		Log:      log,
	}

	libDir := libraryDir(params.Library)
	sources := gatherSources(libDir, params.Sources)

	var added <-chan string
	if params.Watch && isDir(libDir) {
		existing, _ := library.PlaylistFiles(libDir)
		w, err := library.NewWatcher(libDir, existing, log)
		if err != nil {
			log.Warn("library watch disabled", slog.Any("error", err))
		} else {
			defer w.Close()
			added = w.Added()
		}
	}

	opts := controller.Options{
		Logger:       log,
		QueryTimeout: time.Duration(params.QueryTimeout) * time.Millisecond,
		Repeat:       repeat,
		Shuffle:      shuffle,
	}
	build := func(playlists []library.Playlist) tea.Model {
		ctrl := controller.New(library.New(playlists...), backend, opts)
		return ui.New(ctrl, ui.Options{Loader: loader, Added: added, Logger: log})
	}

	log.Info("starting", slog.Int("sources", len(sources)), slog.String("library", libDir))
	program := tea.NewProgram(newStartupModel(loader, sources, build), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if s, ok := final.(startupModel); ok && s.err != nil {
		return s.err
	}
	return nil
}

func openLog(path, level string) (*slog.Logger, *os.File, error) {
	cfg := logger.DefaultConfig()
	if level != "" {
		lvl, err := logger.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		cfg.Level = lvl
	}
	if path == "" {
		path = logger.DefaultPath()
	}
	return logger.OpenFile(path, cfg)
}

// libraryDir returns dir, or ~/.config/mpvq/playlists when dir is empty.
func libraryDir(dir string) string {
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mpvq", "playlists")
}
