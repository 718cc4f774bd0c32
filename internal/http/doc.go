// Package http provides the HTTP client used to fetch HLS playlists and
// media segments.
//
// The Client in this package handles:
//   - User-Agent and extra headers (Referer, Cookie, ...)
//   - Timeout handling
//   - Status checking: any response outside 2xx becomes a *StatusError
//   - Streaming downloads straight to disk with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{UserAgent: "my-agent"})
//
//	// Fetch a playlist
//	body, err := client.GetString(ctx, "https://cdn.example.com/master.m3u8")
//
//	// Download a segment
//	n, err := client.DownloadFile(ctx, segURL, "/tmp/ws/00000.ts", nil)
//
// # Status Errors
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.StatusCode == 404 {
//	    // segment is gone
//	}
package http
