package manifest

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/handiism/hls-downloader/internal/model"
)

const (
	commentPrefix   = "#"
	streamInfPrefix = "#EXT-X-STREAM-INF"
)

var (
	bandwidthAttr  = regexp.MustCompile(`(?:^|[:,])BANDWIDTH=(\d+)`)
	resolutionAttr = regexp.MustCompile(`RESOLUTION=(\d+x\d+)`)
	nameAttr       = regexp.MustCompile(`NAME="([^"]*)"`)
	schemePrefix   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
)

// maxLineSize bounds a single playlist line.
const maxLineSize = 1024 * 1024

// IsMultiVariant reports whether body contains a stream-variant directive.
// Lines after an unreadable one are not inspected.
func IsMultiVariant(body string) bool {
	all, _ := lines(body)
	for _, line := range all {
		if strings.HasPrefix(line, streamInfPrefix) {
			return true
		}
	}
	return false
}

// ParseVariants extracts the variants of a multi-variant playlist.
//
// Every #EXT-X-STREAM-INF directive is paired with the next non-blank line
// that is not a comment. A directive that is followed by another
// stream-variant directive, or by nothing at all, is dropped.
//
// A line longer than 1 MiB fails the whole parse with ErrMalformedPlaylist.
func ParseVariants(body, baseURL string) ([]model.Variant, error) {
	all, err := lines(body)
	if err != nil {
		return nil, err
	}

	var (
		variants []model.Variant
		pending  *model.Variant
	)

	for _, line := range all {
		switch {
		case strings.HasPrefix(line, streamInfPrefix):
			v := parseStreamInf(line)
			pending = &v
		case strings.HasPrefix(line, commentPrefix):
			// Other directives between the stream info and its URI.
		case pending != nil:
			pending.URL = ResolveLocator(baseURL, line)
			variants = append(variants, *pending)
			pending = nil
		}
	}

	return variants, nil
}

func parseStreamInf(line string) model.Variant {
	var v model.Variant
	if m := bandwidthAttr.FindStringSubmatch(line); m != nil {
		v.Bandwidth, _ = strconv.Atoi(m[1])
	}
	if m := resolutionAttr.FindStringSubmatch(line); m != nil {
		v.Resolution = m[1]
	}
	if m := nameAttr.FindStringSubmatch(line); m != nil {
		v.Name = m[1]
	}
	return v
}

// ParseSegments extracts the segments of a leaf playlist.
//
// Every non-blank line that does not start with '#' is a segment locator,
// and its position among those lines is the segment index.
//
// A line longer than 1 MiB fails the whole parse with ErrMalformedPlaylist.
func ParseSegments(body, baseURL string) ([]model.Segment, error) {
	all, err := lines(body)
	if err != nil {
		return nil, err
	}

	var segments []model.Segment
	for _, line := range all {
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		segments = append(segments, model.Segment{
			Index: len(segments),
			URL:   ResolveLocator(baseURL, line),
		})
	}
	return segments, nil
}

// BaseURL returns the playlist address without its last path segment and
// without query or fragment.
//
//	BaseURL("http://h/a/b/index.m3u8?token=1") // "http://h/a/b"
func BaseURL(playlistURL string) string {
	u := playlistURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndex(u, "/"); i >= 0 && i > strings.Index(u, "://")+2 {
		u = u[:i]
	}
	return u
}

// ResolveLocator turns a playlist locator into an absolute address.
//
// Locators with a scheme are returned unchanged. A root-relative locator
// ("/path/seg.ts") is joined to the origin of baseURL. Anything else is
// joined to baseURL with a single '/'.
func ResolveLocator(baseURL, locator string) string {
	if schemePrefix.MatchString(locator) {
		return locator
	}
	if strings.HasPrefix(locator, "/") {
		return origin(baseURL) + locator
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + locator
}

// origin returns scheme://host of u, or u itself when it has no path.
func origin(u string) string {
	i := strings.Index(u, "://")
	if i < 0 {
		return strings.TrimSuffix(u, "/")
	}
	if j := strings.Index(u[i+3:], "/"); j >= 0 {
		return u[:i+3+j]
	}
	return u
}

// lines returns the trimmed, non-blank lines of body.
func lines(body string) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("%w: line %d: %v", ErrMalformedPlaylist, len(out)+1, err)
	}
	return out, nil
}
