package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/olivier-w/mpvq/internal/media"
)

// Local reads tags and durations from files on disk.
type Local struct{}

// Resolve reads the file's tags, falling back to the file name for the
// title. Duration is 0 for formats it cannot measure.
func (Local) Resolve(_ context.Context, path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, resolveErr(path, err)
	}
	if info.IsDir() || !media.IsSupportedExt(filepath.Ext(path)) {
		return Metadata{}, resolveErr(path, fmt.Errorf("not a playable file"))
	}

	m := readTags(path)
	if m.Title == "" {
		m.Title = media.TitleFromPath(path)
	}
	if secs, err := probeDuration(path); err == nil {
		m.Duration = secs
	}
	return m, nil
}

// ExpandPlaylist lists the playable entries of a local playlist file.
func (l Local) ExpandPlaylist(ctx context.Context, path string) ([]string, error) {
	entries, err := l.ExpandEntries(ctx, path)
	if err != nil {
		return nil, err
	}
	return locations(entries), nil
}

// ExpandEntries parses a local playlist and drops entries that cannot play.
func (Local) ExpandEntries(_ context.Context, path string) ([]media.Entry, error) {
	entries, err := media.ParseLocalPlaylist(path)
	if err != nil {
		return nil, resolveErr(path, err)
	}
	playable, _ := media.FilterPlayable(entries)
	return playable, nil
}

// readTags prefers ID3v2 for MP3 and falls back to dhowden/tag for
// everything else it understands (FLAC, OGG, MP4).
func readTags(path string) Metadata {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if t, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
			defer t.Close()
			m := Metadata{
				Title:  strings.TrimSpace(t.Title()),
				Artist: strings.TrimSpace(t.Artist()),
			}
			if m.Title != "" {
				return m
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return Metadata{}
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil || meta == nil {
		return Metadata{}
	}
	return Metadata{
		Title:  strings.TrimSpace(meta.Title()),
		Artist: strings.TrimSpace(meta.Artist()),
	}
}

// probeDuration measures the length of an MP3, WAV, FLAC or OGG file in
// whole seconds without decoding the audio.
func probeDuration(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return 0, err
		}
		// Length is in bytes of 16-bit stereo output.
		n := dec.Length()
		if n <= 0 || dec.SampleRate() <= 0 {
			return 0, fmt.Errorf("mp3 length unknown")
		}
		return uint32(n / int64(4*dec.SampleRate())), nil

	case ".wav":
		dec := wav.NewDecoder(f)
		if !dec.IsValidFile() {
			return 0, fmt.Errorf("invalid WAV file")
		}
		if err := dec.FwdToPCM(); err != nil {
			return 0, fmt.Errorf("reading WAV PCM data: %w", err)
		}
		bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
		if bytesPerSec <= 0 {
			return 0, fmt.Errorf("invalid WAV format")
		}
		return uint32(dec.PCMLen() / bytesPerSec), nil

	case ".flac":
		stream, err := flac.NewSeek(f)
		if err != nil {
			return 0, fmt.Errorf("decoding FLAC: %w", err)
		}
		defer stream.Close()
		if stream.Info.SampleRate == 0 {
			return 0, fmt.Errorf("invalid FLAC sample rate")
		}
		return uint32(stream.Info.NSamples / uint64(stream.Info.SampleRate)), nil

	case ".ogg":
		reader, err := oggvorbis.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("decoding OGG: %w", err)
		}
		if reader.SampleRate() <= 0 {
			return 0, fmt.Errorf("invalid OGG sample rate")
		}
		return uint32(reader.Length() / int64(reader.SampleRate())), nil

	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}
}
