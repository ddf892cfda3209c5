package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
)

// Orphan is an mpv process left running by an earlier session.
type Orphan struct {
	Pid    int32
	Socket string
	proc   procHandle
}

type procHandle interface {
	CmdlineSliceWithContext(ctx context.Context) ([]string, error)
	PpidWithContext(ctx context.Context) (int32, error)
	KillWithContext(ctx context.Context) error
}

type candidate struct {
	pid  int32
	proc procHandle
}

var listProcesses = func(ctx context.Context) ([]candidate, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(procs, func(p *process.Process, _ int) candidate {
		return candidate{pid: p.Pid, proc: p}
	}), nil
}

var parentName = func(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

// attached reports whether p is still the child of a running mpvq, which
// means another instance owns it.
func attached(ctx context.Context, p procHandle) bool {
	ppid, err := p.PpidWithContext(ctx)
	if err != nil || ppid <= 1 {
		return false
	}
	name, err := parentName(ctx, ppid)
	return err == nil && strings.HasPrefix(name, "mpvq")
}

// socketArg returns the IPC socket path if args belong to an mpv started by
// this program.
func socketArg(args []string) (string, bool) {
	const flag = "--input-ipc-server="
	arg, ok := lo.Find(args, func(a string) bool {
		return strings.HasPrefix(a, flag) && strings.HasPrefix(filepath.Base(a[len(flag):]), SocketPrefix)
	})
	if !ok {
		return "", false
	}
	return arg[len(flag):], true
}

// FindOrphans lists running mpv processes whose IPC socket carries
// SocketPrefix and whose parent is no longer an mpvq.
func FindOrphans(ctx context.Context) ([]Orphan, error) {
	candidates, err := listProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var orphans []Orphan
	for _, c := range candidates {
		// Processes can vanish or deny access while we look; skip those.
		args, err := c.proc.CmdlineSliceWithContext(ctx)
		if err != nil {
			continue
		}
		if socket, ok := socketArg(args); ok && !attached(ctx, c.proc) {
			orphans = append(orphans, Orphan{Pid: c.pid, Socket: socket, proc: c.proc})
		}
	}
	return orphans, nil
}

// KillOrphans kills every orphan and removes its socket. It returns the
// orphans that were killed.
func KillOrphans(ctx context.Context, log *slog.Logger) ([]Orphan, error) {
	orphans, err := FindOrphans(ctx)
	if err != nil {
		return nil, err
	}

	var killed []Orphan
	var errs []error
	for _, o := range orphans {
		if err := o.proc.KillWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kill pid %d: %w", o.Pid, err))
			continue
		}
		if err := os.Remove(o.Socket); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Debug("remove orphan socket", slog.String("socket", o.Socket), slog.Any("error", err))
		}
		log.Info("killed orphaned mpv", slog.Int("pid", int(o.Pid)), slog.String("socket", o.Socket))
		killed = append(killed, o)
	}
	return killed, errors.Join(errs...)
}
