package media

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one item of a playlist file. Location is an absolute local path
// or an http(s) URL. Title and Duration come from #EXTINF or TitleN/LengthN
// lines and are empty or zero when the file does not say.
type Entry struct {
	Location string
	Title    string
	Duration uint32
}

// IsRemote reports whether the entry points at a URL.
func (e Entry) IsRemote() bool {
	return IsURL(e.Location)
}

// ParseLocalPlaylist parses a local .m3u/.m3u8/.pls file.
// Relative entries are resolved against the playlist file directory.
func ParseLocalPlaylist(path string) ([]Entry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	absPlaylistPath, err := filepath.Abs(path)
	if err != nil {
		absPlaylistPath = path
	}

	data, err := os.ReadFile(absPlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	return ParsePlaylist(string(data), filepath.Dir(absPlaylistPath)), nil
}

// ParsePlaylist parses an m3u or pls body. base is the directory or URL
// relative entries are resolved against. Entries that resolve to nothing
// usable are dropped.
func ParsePlaylist(body, base string) []Entry {
	body = strings.TrimSpace(strings.TrimPrefix(body, "\uFEFF"))
	if body == "" {
		return nil
	}
	if looksLikePLS(body) {
		return parsePLS(body, base)
	}
	return parseM3U(body, base)
}

func looksLikePLS(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if trimmed == "" {
			continue
		}
		if trimmed == "[playlist]" {
			return true
		}
		break
	}
	return strings.Contains(strings.ToLower(body), "\nfile1=")
}

func parseM3U(body, base string) []Entry {
	scanner := bufio.NewScanner(strings.NewReader(body))
	entries := make([]Entry, 0)
	var pending Entry
	for scanner.Scan() {
		line := normalizeValue(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "#extinf:") {
			pending = parseExtInf(line[len("#extinf:"):])
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		loc, ok := resolveLocation(line, base)
		if ok {
			pending.Location = loc
			entries = append(entries, pending)
		}
		pending = Entry{}
	}
	return entries
}

// parseExtInf reads "<seconds>[ attrs],<title>".
func parseExtInf(rest string) Entry {
	var e Entry
	head, title, found := strings.Cut(rest, ",")
	if found {
		e.Title = strings.TrimSpace(title)
	}
	if fields := strings.Fields(head); len(fields) > 0 {
		e.Duration = parseSeconds(fields[0])
	}
	return e
}

func parsePLS(body, base string) []Entry {
	scanner := bufio.NewScanner(strings.NewReader(body))
	files := make(map[int]string)
	titles := make(map[int]string)
	lengths := make(map[int]uint32)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, raw, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val := normalizeValue(raw)
		if val == "" {
			continue
		}
		if idx, ok := plsIndex(key, "file"); ok {
			files[idx] = val
		} else if idx, ok := plsIndex(key, "title"); ok {
			titles[idx] = val
		} else if idx, ok := plsIndex(key, "length"); ok {
			lengths[idx] = parseSeconds(val)
		}
	}

	indices := make([]int, 0, len(files))
	for idx := range files {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	entries := make([]Entry, 0, len(indices))
	for _, idx := range indices {
		loc, ok := resolveLocation(files[idx], base)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Location: loc, Title: titles[idx], Duration: lengths[idx]})
	}
	return entries
}

func plsIndex(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(key[len(prefix):]))
	if err != nil || idx <= 0 {
		return 0, false
	}
	return idx, true
}

// parseSeconds accepts whole or fractional seconds. Negative values mean
// unknown length (live streams) and map to 0.
func parseSeconds(s string) uint32 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return uint32(f)
}

func normalizeValue(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(s, ";"))
}

// resolveLocation turns a playlist line into an absolute path or URL.
// Against a URL base, only http(s) results are accepted.
func resolveLocation(raw, base string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if IsURL(raw) {
		return raw, true
	}
	if IsURL(base) {
		return resolveRemote(raw, base)
	}
	if strings.Contains(raw, "://") {
		return "", false
	}
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p, true
	}
	return filepath.Join(base, p), true
}

func resolveRemote(raw, base string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	resolved := baseURL.ResolveReference(parsed).String()
	return resolved, IsURL(resolved)
}

// FilterPlayable keeps URLs and existing, supported local media files, and
// fills in a title from the file name where the playlist gave none.
// It returns the kept entries and how many were skipped.
func FilterPlayable(entries []Entry) ([]Entry, int) {
	out := make([]Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if e.IsRemote() {
			out = append(out, e)
			continue
		}
		info, err := os.Stat(e.Location)
		if err != nil || info.IsDir() || !IsSupportedExt(filepath.Ext(e.Location)) {
			skipped++
			continue
		}
		if e.Title == "" {
			e.Title = TitleFromPath(e.Location)
		}
		out = append(out, e)
	}
	return out, skipped
}

// TitleFromPath returns the file name without directory or extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
