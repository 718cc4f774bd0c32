// Package ioutils provides the file system side of a download run: the
// per-run workspace, the assembler that merges segment files, and small
// path helpers.
package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	multiWhitespace = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Live: Day 1/2")  // Returns "Live_ Day 1_2"
//	SanitizeFileName("Episode...")     // Returns "Episode"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiWhitespace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// OutputPath builds the path of the merged file.
//
// When title is non-empty it is sanitized and used as the file name,
// otherwise the name is derived from now ("2006-01-02_15-04-05"). ext is
// appended unless the name already carries it.
//
// Example:
//
//	OutputPath("/videos", "", "ts", now)        // "/videos/2026-10-15_09-30-00.ts"
//	OutputPath("/music", "Show: Ep 1", "mp3", now) // "/music/Show_ Ep 1.mp3"
func OutputPath(dir, title, ext string, now time.Time) string {
	name := SanitizeFileName(title)
	if name == "" {
		name = now.Format("2006-01-02_15-04-05")
	}
	suffix := "." + strings.TrimPrefix(ext, ".")
	if !strings.HasSuffix(name, suffix) {
		name += suffix
	}
	return filepath.Join(dir, name)
}
