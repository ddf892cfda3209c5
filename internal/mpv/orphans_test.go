package mpv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/mpvq/internal/logger"
)

type fakeOSProc struct {
	args    []string
	argsErr error
	ppid    int32
	killed  bool
}

func (p *fakeOSProc) PpidWithContext(context.Context) (int32, error) {
	return p.ppid, nil
}

func (p *fakeOSProc) CmdlineSliceWithContext(context.Context) ([]string, error) {
	return p.args, p.argsErr
}

func (p *fakeOSProc) KillWithContext(context.Context) error {
	p.killed = true
	return nil
}

func stubProcessList(t *testing.T, procs map[int32]*fakeOSProc) {
	t.Helper()
	orig := listProcesses
	t.Cleanup(func() { listProcesses = orig })
	listProcesses = func(context.Context) ([]candidate, error) {
		var out []candidate
		for pid, p := range procs {
			out = append(out, candidate{pid: pid, proc: p})
		}
		return out, nil
	}
}

func TestSocketArg(t *testing.T) {
	socket, ok := socketArg([]string{"mpv", "--input-ipc-server=/tmp/mpvq-abc.sock", "--no-video", "x.mp3"})
	assert.True(t, ok)
	assert.Equal(t, "/tmp/mpvq-abc.sock", socket)

	_, ok = socketArg([]string{"mpv", "--input-ipc-server=/tmp/other.sock"})
	assert.False(t, ok)
	_, ok = socketArg([]string{"vim", "mpvq-notes.txt"})
	assert.False(t, ok)
}

func TestKillOrphansOnlyKillsOurs(t *testing.T) {
	dir := t.TempDir()
	ourSocket := filepath.Join(dir, SocketPrefix+"old.sock")
	require.NoError(t, os.WriteFile(ourSocket, nil, 0o600))

	ours := &fakeOSProc{args: []string{"mpv", "--input-ipc-server=" + ourSocket, "song.mp3"}}
	theirs := &fakeOSProc{args: []string{"mpv", "--input-ipc-server=/tmp/theirs", "movie.mkv"}}
	gone := &fakeOSProc{argsErr: errors.New("no such process")}
	stubProcessList(t, map[int32]*fakeOSProc{10: ours, 11: theirs, 12: gone})

	killed, err := KillOrphans(context.Background(), logger.NewTestLogger())
	require.NoError(t, err)
	require.Len(t, killed, 1)
	assert.Equal(t, int32(10), killed[0].Pid)
	assert.True(t, ours.killed)
	assert.False(t, theirs.killed)

	_, err = os.Stat(ourSocket)
	assert.True(t, os.IsNotExist(err))
}

func TestFindOrphansListError(t *testing.T) {
	orig := listProcesses
	t.Cleanup(func() { listProcesses = orig })
	listProcesses = func(context.Context) ([]candidate, error) { return nil, errors.New("permission denied") }

	_, err := FindOrphans(context.Background())
	assert.Error(t, err)
}

func TestFindOrphansSkipsLiveInstances(t *testing.T) {
	orig := parentName
	t.Cleanup(func() { parentName = orig })
	parentName = func(_ context.Context, pid int32) (string, error) {
		if pid == 500 {
			return "mpvq", nil
		}
		return "", errors.New("no such process")
	}

	owned := &fakeOSProc{args: []string{"mpv", "--input-ipc-server=/tmp/mpvq-a.sock"}, ppid: 500}
	reparented := &fakeOSProc{args: []string{"mpv", "--input-ipc-server=/tmp/mpvq-b.sock"}, ppid: 1}
	deadParent := &fakeOSProc{args: []string{"mpv", "--input-ipc-server=/tmp/mpvq-c.sock"}, ppid: 777}
	stubProcessList(t, map[int32]*fakeOSProc{20: owned, 21: reparented, 22: deadParent})

	orphans, err := FindOrphans(context.Background())
	require.NoError(t, err)
	pids := []int32{}
	for _, o := range orphans {
		pids = append(pids, o.Pid)
	}
	assert.ElementsMatch(t, []int32{21, 22}, pids)
}
