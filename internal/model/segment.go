package model

import "fmt"

// Segment is one media segment scheduled for download.
//
// Index is 0-based and dense across a run: the segments of a playlist with
// N entries carry indices 0..N-1 in playback order. The index, not the
// download completion order, decides where the segment's bytes end up in
// the merged output.
type Segment struct {
	// Index is the position of the segment in the playlist.
	Index int

	// URL is the absolute address of the segment.
	URL string

	// Duration is the EXTINF duration in seconds, 0 when unknown.
	Duration float64
}

// SegmentFileName returns the workspace file name for a segment index.
//
// The index is zero-padded to five digits so that a lexicographic sort of
// the workspace directory yields playback order:
//
//	SegmentFileName(7, "ts")   // "00007.ts"
//	SegmentFileName(123, "ts") // "00123.ts"
func SegmentFileName(index int, ext string) string {
	return fmt.Sprintf("%05d.%s", index, ext)
}

// TotalDuration sums the known segment durations.
func TotalDuration(segments []Segment) float64 {
	var total float64
	for _, seg := range segments {
		total += seg.Duration
	}
	return total
}
