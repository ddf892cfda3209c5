package media

import (
	"net/url"
	"strings"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".m4a":  true,
	".m4b":  true,
}

// mpv plays the audio track of these with --no-video.
var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// IsSupportedExt returns true if the extension is a playable audio or video format.
func IsSupportedExt(ext string) bool {
	ext = strings.ToLower(ext)
	return audioExts[ext] || videoExts[ext]
}

// IsPlaylistExt returns true if the extension is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of supported playable media formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg, .opus, .aac, .m4a, .m4b, .mp4, .mkv, .webm, .mov"
}

// IsURL returns true if the argument is an absolute http(s) URL.
func IsURL(arg string) bool {
	u, err := url.Parse(strings.TrimSpace(arg))
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
