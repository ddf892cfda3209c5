package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseLocalPlaylistM3U(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.m3u")
	content := "\uFEFF#EXTM3U\n\n#EXTINF:215,Boards of Canada - Roygbiv\nsong1.mp3\n#comment\n\"https://example.com/stream\"\nsub/song2.wav\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []Entry{
		{Location: filepath.Join(dir, "song1.mp3"), Title: "Boards of Canada - Roygbiv", Duration: 215},
		{Location: "https://example.com/stream"},
		{Location: filepath.Join(dir, "sub", "song2.wav")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistPLS(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.pls")
	content := "[playlist]\n file1 = one.flac \nTitle1=One\nLength1=120\nFile2=https://example.com/live\nLength2=-1\nFileX=bad.mp3\nFile3=\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []Entry{
		{Location: filepath.Join(dir, "one.flac"), Title: "One", Duration: 120},
		{Location: "https://example.com/live"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistRejectsOtherExt(t *testing.T) {
	if _, err := ParseLocalPlaylist("songs.txt"); err == nil {
		t.Fatal("expected error for .txt playlist")
	}
}

func TestParsePlaylistRemoteBase(t *testing.T) {
	body := "#EXTM3U\n#EXTINF:-1 tvg-id=\"x\",Station\nstream\n#EXTINF:30,Jingle\n/jingles/a.mp3\nftp://example.com/nope\n"
	got := ParsePlaylist(body, "https://radio.example.com/live/listen.m3u")

	want := []Entry{
		{Location: "https://radio.example.com/live/stream", Title: "Station"},
		{Location: "https://radio.example.com/jingles/a.mp3", Title: "Jingle", Duration: 30},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParsePlaylist() = %#v, want %#v", got, want)
	}
}

func TestParsePlaylistPLSWithoutHeader(t *testing.T) {
	body := "NumberOfEntries=1\nFile1=http://example.com/stream;\nTitle1=Demo\n"
	got := ParsePlaylist(body, "http://example.com/listen.pls")
	want := []Entry{{Location: "http://example.com/stream", Title: "Demo"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParsePlaylist() = %#v, want %#v", got, want)
	}
}

func TestFilterPlayable(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "ok.mp3")
	if err := os.WriteFile(valid, []byte("x"), 0o644); err != nil {
		t.Fatalf("write valid file: %v", err)
	}
	video := filepath.Join(dir, "clip.webm")
	if err := os.WriteFile(video, []byte("x"), 0o644); err != nil {
		t.Fatalf("write video file: %v", err)
	}
	unsupported := filepath.Join(dir, "nope.txt")
	if err := os.WriteFile(unsupported, []byte("x"), 0o644); err != nil {
		t.Fatalf("write unsupported file: %v", err)
	}
	subdir := filepath.Join(dir, "folder.mp3")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	input := []Entry{
		{Location: valid},
		{Location: video, Title: "Named"},
		{Location: filepath.Join(dir, "missing.mp3")},
		{Location: unsupported},
		{Location: subdir},
		{Location: "https://example.com/track.mp3"},
	}

	got, skipped := FilterPlayable(input)
	want := []Entry{
		{Location: valid, Title: "ok"},
		{Location: video, Title: "Named"},
		{Location: "https://example.com/track.mp3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterPlayable() = %#v, want %#v", got, want)
	}
	if skipped != 3 {
		t.Fatalf("FilterPlayable() skipped=%d, want %d", skipped, 3)
	}
}
