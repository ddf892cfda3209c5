package util

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   uint32
		want string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{185, "3:05"},
		{3725, "62:05"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Fatalf("FormatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(61, 180); got != "1:01/3:00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatProgress(5, 0); got != "0:05/--:--" {
		t.Fatalf("unknown total: got %q", got)
	}
}
