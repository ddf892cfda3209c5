package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/olivier-w/mpvq/internal/library"
	"github.com/olivier-w/mpvq/internal/resolver"
	"github.com/olivier-w/mpvq/internal/util"
)

// ListParams are the flags of the list command.
type ListParams struct {
	Sources  []string `pos:"true" optional:"true" help:"Playlist directories, .m3u/.pls files or playlist URLs."`
	Library  string   `short:"L" optional:"true" help:"Library directory of playlist files (default ~/.config/mpvq/playlists)."`
	Ytdlp    string   `optional:"true" help:"yt-dlp binary." default:"yt-dlp"`
	LogFile  string   `optional:"true" help:"Log file (default $TMPDIR/mpvq.log)."`
	LogLevel string   `optional:"true" help:"Log level: debug, info, warn or error."`
}

func listCmd() *cobra.Command {
	return boa.CmdT[ListParams]{
		Use:         "list [sources...]",
		Short:       "Print the library as a table",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *ListParams, cmd *cobra.Command, args []string) {
			if err := runList(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "mpvq list: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func runList(params *ListParams, out io.Writer) error {
	log, logFile, err := openLog(params.LogFile, params.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	loader := &library.Loader{
		Resolver: resolver.New(resolver.Config{YTDLPBinary: params.Ytdlp}, log),
		Log:      log,
	}
	sources := gatherSources(libraryDir(params.Library), params.Sources)
	if len(sources) == 0 {
		return fmt.Errorf("no library directory and no sources given")
	}
	playlists, err := loadSources(context.Background(), loader, sources)
	if err != nil {
		return err
	}
	renderLibrary(out, playlists)
	return nil
}

func renderLibrary(out io.Writer, playlists []library.Playlist) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Playlist", "#", "Artist", "Title", "Length"})

	total := 0
	for _, p := range playlists {
		for i, tr := range p.Tracks {
			length := "--:--"
			if tr.Duration > 0 {
				length = util.FormatSeconds(tr.Duration)
			}
			t.AppendRow(table.Row{p.Name, i + 1, tr.Artist, tr.Title, length})
		}
		total += len(p.Tracks)
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d playlists", len(playlists)), total, "", "", ""})
	t.Render()
}
