// Package download provides the download orchestration logic for
// fetching an HLS playlist and assembling its segments into one file.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Resolve the playlist, choosing a variant if there are several
//  2. Create a private workspace directory
//  3. Download segments concurrently, retrying each one
//  4. Merge the downloaded segments in index order
//  5. Tag mp3 outputs with ID3 metadata (optional)
//  6. Remove the workspace
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, "https://cdn.example.com/master.m3u8", manifest.HighestBandwidth)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := manager.StartDownloads(ctx, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary.OutputPath, summary.Failed)
//
// # Concurrency
//
// At most settings.MaxConcurrentSegments segment downloads run at once.
// Segments are started in index order.
//
// # Failures
//
// Each segment is retried settings.DownloadMaxRetries times with a fixed
// settings.DownloadRetryDelay between attempts. A segment that still fails
// is skipped: the output is assembled from the remaining segments and the
// skipped indices are listed in model.Summary.Failed.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent,
// and can be polled with GetProgress:
//
//	received, downloaded, failed, total := manager.GetProgress()
package download
