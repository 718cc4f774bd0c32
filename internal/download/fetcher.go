package download

import (
	"context"
	"fmt"

	"github.com/handiism/hls-downloader/internal/http"
	ioutils "github.com/handiism/hls-downloader/internal/io"
	"github.com/handiism/hls-downloader/internal/model"
)

// SegmentFetchError reports a segment that could not be downloaded or
// written to the workspace.
type SegmentFetchError struct {
	Index int
	URL   string
	Err   error
}

func (e *SegmentFetchError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Index, e.URL, e.Err)
}

func (e *SegmentFetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads single segments into a workspace.
//
// Each segment is stored as <workspace>/<index padded to 5 digits>.<ext>,
// and the file is complete and closed when Fetch returns. Distinct indices
// map to distinct files, so any number of Fetch calls may run at once.
type Fetcher struct {
	client    *http.Client
	workspace *ioutils.Workspace
	ext       string
}

// NewFetcher creates a Fetcher writing files with extension ext.
func NewFetcher(client *http.Client, workspace *ioutils.Workspace, ext string) *Fetcher {
	return &Fetcher{client: client, workspace: workspace, ext: ext}
}

// Fetch downloads seg and returns the number of bytes written.
func (f *Fetcher) Fetch(ctx context.Context, seg model.Segment) (int64, error) {
	dest := f.workspace.File(model.SegmentFileName(seg.Index, f.ext))

	n, err := f.client.DownloadFile(ctx, seg.URL, dest, nil)
	if err != nil {
		return 0, &SegmentFetchError{Index: seg.Index, URL: seg.URL, Err: err}
	}
	return n, nil
}
