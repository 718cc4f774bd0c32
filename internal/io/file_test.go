package ioutils

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.ts", "normal-file.ts"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with?wildcards*", "file_with_wildcards_"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dir   string
		title string
		ext   string
		want  string
	}{
		{"timestamp", "/videos", "", "ts", filepath.Join("/videos", "2026-10-15_09-30-00.ts")},
		{"title", "/music", "Show: Ep 1", "mp3", filepath.Join("/music", "Show_ Ep 1.mp3")},
		{"title with extension", "", "clip.ts", ".ts", "clip.ts"},
		{"title sanitized to empty", "out", "...", "ts", filepath.Join("out", "2026-10-15_09-30-00.ts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.dir, tt.title, tt.ext, now); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
