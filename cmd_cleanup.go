package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/olivier-w/mpvq/internal/mpv"
)

// CleanupParams are the flags of the cleanup command.
type CleanupParams struct {
	DryRun   bool   `short:"n" optional:"true" help:"Only list orphaned mpv processes."`
	LogFile  string `optional:"true" help:"Log file (default $TMPDIR/mpvq.log)."`
	LogLevel string `optional:"true" help:"Log level: debug, info, warn or error."`
}

func cleanupCmd() *cobra.Command {
	return boa.CmdT[CleanupParams]{
		Use:         "cleanup",
		Short:       "Kill mpv processes left behind by earlier mpvq sessions",
		ParamEnrich: defaultParamEnricher(),
		RunFunc: func(params *CleanupParams, cmd *cobra.Command, args []string) {
			if err := runCleanup(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "mpvq cleanup: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

var (
	findOrphans = mpv.FindOrphans
	killOrphans = mpv.KillOrphans
)

func runCleanup(params *CleanupParams, out io.Writer) error {
	log, logFile, err := openLog(params.LogFile, params.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var orphans []mpv.Orphan
	if params.DryRun {
		orphans, err = findOrphans(ctx)
	} else {
		orphans, err = killOrphans(ctx, log)
	}
	if len(orphans) == 0 && err == nil {
		fmt.Fprintln(out, "no orphaned mpv processes")
		return nil
	}
	renderOrphans(out, orphans, !params.DryRun)
	return err
}

func renderOrphans(out io.Writer, orphans []mpv.Orphan, killed bool) {
	state := "found"
	if killed {
		state = "killed"
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"PID", "Socket", "State"})
	for _, o := range orphans {
		t.AppendRow(table.Row{o.Pid, o.Socket, state})
	}
	t.Render()
}
