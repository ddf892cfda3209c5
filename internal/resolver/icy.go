package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	icyHeaderTimeout = 4 * time.Second
	icyReadTimeout   = 8 * time.Second
)

// ICY names Shoutcast/Icecast radio streams from their response headers
// and first in-band metadata block.
type ICY struct {
	Client *http.Client
}

// NewICY creates an ICY resolver. Compression is off because the metadata
// interval counts raw body bytes.
func NewICY() *ICY {
	return &ICY{Client: &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableCompression:    true,
			ResponseHeaderTimeout: icyHeaderTimeout,
		},
	}}
}

// Resolve returns the station name as the title, falling back to the
// current stream title. Streams are live, so the duration is always unknown.
func (i *ICY) Resolve(ctx context.Context, rawURL string) (Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, icyReadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, resolveErr(rawURL, err)
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", "mpvq")

	resp, err := i.Client.Do(req)
	if err != nil {
		return Metadata{}, resolveErr(rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Metadata{}, resolveErr(rawURL, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	name := strings.TrimSpace(resp.Header.Get("icy-name"))
	if name != "" {
		return Metadata{Title: name}, nil
	}
	metaInt, err := parseICYMetaInt(resp.Header.Get("icy-metaint"))
	if err != nil {
		return Metadata{}, resolveErr(rawURL, err)
	}
	title, err := readICYTitle(resp.Body, metaInt)
	if err != nil {
		return Metadata{}, resolveErr(rawURL, err)
	}
	return Metadata{Title: title}, nil
}

// readICYTitle reads up to a few metadata blocks until one carries a title.
func readICYTitle(r io.Reader, metaInt int) (string, error) {
	const maxBlocks = 3
	for range maxBlocks {
		if _, err := io.CopyN(io.Discard, r, int64(metaInt)); err != nil {
			return "", err
		}
		var metaLen [1]byte
		if _, err := io.ReadFull(r, metaLen[:]); err != nil {
			return "", err
		}
		size := int(metaLen[0]) * 16
		if size == 0 {
			continue
		}
		block := make([]byte, size)
		if _, err := io.ReadFull(r, block); err != nil {
			return "", err
		}
		if title := extractICYStreamTitle(block); title != "" {
			return title, nil
		}
	}
	return "", fmt.Errorf("no stream title")
}

func parseICYMetaInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("not an icy stream")
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid icy-metaint %q", value)
	}
	return n, nil
}

func extractICYStreamTitle(block []byte) string {
	raw := strings.TrimRight(string(block), "\x00")
	const marker = "streamtitle='"
	start := strings.Index(strings.ToLower(raw), marker)
	if start < 0 {
		return ""
	}
	start += len(marker)
	end := strings.Index(raw[start:], "'")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(raw[start : start+end])
}
