package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "hls-downloader"

// StatusError reports a response whose status is outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Options configures a Client.
//
// Zero values fall back to defaults: a 60 second timeout and the
// DefaultUserAgent header.
type Options struct {
	// Timeout bounds a whole request including the body read.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent.
	UserAgent string

	// Headers are added to every request (e.g. Referer, Cookie).
	Headers map[string]string
}

// Client wraps HTTP operations used to fetch playlists and segments.
//
// Client provides:
//   - Configured User-Agent and extra headers on every request
//   - Timeout handling
//   - Status checking that turns non-2xx responses into *StatusError
//   - Streaming downloads with progress tracking
//
// Example usage:
//
//	client := NewClient(Options{Timeout: 30 * time.Second})
//
//	// Fetch a playlist
//	body, err := client.GetString(ctx, "https://cdn.example.com/index.m3u8")
//
//	// Stream a segment to disk
//	n, err := client.DownloadFile(ctx, segmentURL, "/tmp/ws/00000.ts", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
	headers    map[string]string
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		headers:   opts.Headers,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the bytes written by the last Write call and the running
// total.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    OnUpdate: func(delta, written int64) {
//	        atomic.AddInt64(&received, delta)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (delta, written).
	OnUpdate func(delta, written int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil && n > 0 {
		pw.OnUpdate(int64(n), pw.Written)
	}
	return n, err
}

// open performs a GET request and returns the response once its status has
// been checked. The caller owns resp.Body.
func (c *Client) open(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.Download(ctx, url, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching playlists.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Download streams the response body of url into w and returns the number
// of bytes copied.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return io.Copy(w, resp.Body)
}

// DownloadFile downloads a file to the specified path with optional progress callback.
//
// The file is created (or truncated if it exists) only after a successful
// status was received, and the content is streamed directly to disk. If the
// body cannot be fully copied the partial file is removed.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (delta, written)
//     Pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(delta, written int64)) (int64, error) {
	resp, err := c.open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return n, err
	}
	return n, nil
}
