package model

import "sort"

// Summary describes the outcome of one download run.
//
// A run that lost some segments still produces a Summary: the failed
// indices are listed in Failed and the output simply lacks their bytes.
type Summary struct {
	// OutputPath is the merged file. Empty when nothing was merged.
	OutputPath string

	// Total is the number of segments in the playlist.
	Total int

	// Downloaded is the number of segments persisted to the workspace.
	Downloaded int

	// Failed lists, in ascending order, the indices skipped after retries.
	Failed []int

	// Bytes is the size of the merged output.
	Bytes int64

	// Duration is the summed EXTINF duration of the playlist in seconds.
	Duration float64

	// Merged reports whether an output file was written.
	Merged bool
}

// Complete reports whether every segment made it into the output.
func (s *Summary) Complete() bool {
	return s.Merged && len(s.Failed) == 0
}

// SortFailed orders Failed ascending.
func (s *Summary) SortFailed() {
	sort.Ints(s.Failed)
}
