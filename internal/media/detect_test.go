package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtIncludesVideo(t *testing.T) {
	for _, ext := range []string{".mp3", ".FLAC", ".m4b", ".mkv", ".webm"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	if IsSupportedExt(".txt") {
		t.Fatal("expected .txt to be unsupported")
	}
}

func TestSupportedExtsListMatchesTables(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
	for ext := range videoExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://youtube.com/watch?v=x": true,
		"HTTP://example.com/a.mp3":      true,
		"ftp://example.com/a.mp3":       false,
		"/home/me/a.mp3":                false,
		"https://":                      false,
		"song.mp3":                      false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Fatalf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
