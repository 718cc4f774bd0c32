package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/handiism/hls-downloader/internal/audio"
	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/http"
	ioutils "github.com/handiism/hls-downloader/internal/io"
	"github.com/handiism/hls-downloader/internal/manifest"
	"github.com/handiism/hls-downloader/internal/model"
	"github.com/handiism/hls-downloader/internal/retry"
	"github.com/handiism/hls-downloader/internal/scheduler"
)

// ErrNotInitialized is returned by StartDownloads before Initialize
// succeeded.
var ErrNotInitialized = errors.New("manager not initialized")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates one playlist download.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	resolver     *manifest.Resolver
	tagger       *audio.Tagger
	imageService *ioutils.ImageService

	playlist *manifest.Playlist

	totalSegments      int32
	downloadedSegments int32
	failedSegments     int32
	receivedBytes      int64

	failed     []int
	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(settings.ToClientOptions())
	return &Manager{
		settings:     settings,
		httpClient:   client,
		resolver:     manifest.NewResolver(client),
		tagger:       audio.NewTagger(),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize resolves the playlist at manifestURL.
//
// For a multi-variant playlist choose is asked to pick a rendition; it is
// not called otherwise.
func (m *Manager) Initialize(ctx context.Context, manifestURL string, choose manifest.Selector) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching playlist: %s", manifestURL), Level: LevelVerbose})

	pl, err := m.resolver.Resolve(ctx, manifestURL, choose)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error resolving %s: %v", manifestURL, err), Level: LevelError})
		return err
	}

	m.playlist = pl
	atomic.StoreInt32(&m.totalSegments, int32(len(pl.Segments)))

	if pl.Variant != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Selected variant: %s", pl.Variant.Label()), Level: LevelInfo})
	}
	if pl.Encrypted {
		m.progress(ProgressEvent{Message: "Playlist declares EXT-X-KEY; segments will be saved without decryption", Level: LevelWarning})
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d segments", len(pl.Segments)), Level: LevelInfo})

	return nil
}

// Playlist returns the resolved playlist, nil before Initialize.
func (m *Manager) Playlist() *manifest.Playlist {
	return m.playlist
}

// StartDownloads downloads every segment and merges them into outputPath.
//
// An empty outputPath is derived from the settings and the current time.
// Segments that still fail after their retries are skipped and listed in
// the returned Summary; only run-level failures (workspace, merge I/O,
// cancellation) return an error.
func (m *Manager) StartDownloads(ctx context.Context, outputPath string) (*model.Summary, error) {
	if m.playlist == nil {
		return nil, ErrNotInitialized
	}
	m.resetProgress()

	ext := m.settings.SegmentExtension
	if outputPath == "" {
		outputPath = ioutils.OutputPath(m.settings.OutputDir, m.settings.TagTitle, ext, time.Now())
	}

	ws, err := ioutils.NewWorkspace(m.settings.WorkspaceDir)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating workspace: %v", err), Level: LevelError})
		return nil, err
	}
	defer m.cleanup(ws)

	log.Debug().Str("workspace", ws.Path()).Int("segments", len(m.playlist.Segments)).Msg("download started")

	fetcher := NewFetcher(m.httpClient, ws, ext)
	tasks := make([]scheduler.Task, len(m.playlist.Segments))
	for i, seg := range m.playlist.Segments {
		tasks[i] = m.segmentTask(fetcher, seg)
	}

	if err := scheduler.Run(ctx, m.settings.MaxConcurrentSegments, tasks); err != nil {
		return nil, err
	}

	summary := &model.Summary{
		Total:      len(m.playlist.Segments),
		Downloaded: int(atomic.LoadInt32(&m.downloadedSegments)),
		Failed:     m.failedIndices(),
		Duration:   model.TotalDuration(m.playlist.Segments),
	}
	summary.SortFailed()

	res, err := ioutils.Merge(ctx, ws.Path(), ext, outputPath)
	switch {
	case errors.Is(err, ioutils.ErrNothingToMerge):
		m.progress(ProgressEvent{Message: "Nothing to merge", Level: LevelWarning})
		return summary, nil
	case err != nil:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error merging segments: %v", err), Level: LevelError})
		return nil, fmt.Errorf("merge segments: %w", err)
	}

	summary.OutputPath = outputPath
	summary.Bytes = res.Bytes
	summary.Merged = true

	m.tagOutput(ctx, outputPath)

	if summary.Complete() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s (%d segments)", outputPath, res.Parts), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s, %d of %d segments missing", outputPath, len(summary.Failed), summary.Total), Level: LevelWarning})
	}

	return summary, nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, downloaded, failed, total int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedSegments),
		atomic.LoadInt32(&m.failedSegments),
		atomic.LoadInt32(&m.totalSegments)
}

// segmentTask wraps one segment download for the scheduler. A segment
// that still fails after its retries is logged and recorded, never
// propagated.
func (m *Manager) segmentTask(fetcher *Fetcher, seg model.Segment) scheduler.Task {
	return func(ctx context.Context) {
		policy := m.settings.ToRetryPolicy()
		policy.OnRetry = func(attempt int, err error) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for segment %d: %v", attempt, policy.Retries, seg.Index, err), Level: LevelWarning})
		}

		n, err := retry.DoValue(ctx, policy, func(ctx context.Context) (int64, error) {
			return fetcher.Fetch(ctx, seg)
		})
		if err != nil {
			log.Warn().Int("index", seg.Index).Str("url", seg.URL).Err(err).Msg("segment skipped")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading segment %d: %v", seg.Index, err), Level: LevelError})

			m.mu.Lock()
			m.failed = append(m.failed, seg.Index)
			m.mu.Unlock()
			atomic.AddInt32(&m.failedSegments, 1)
			return
		}

		atomic.AddInt64(&m.receivedBytes, n)
		done := atomic.AddInt32(&m.downloadedSegments, 1)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Downloaded segment %d (%d/%d)", seg.Index, done, atomic.LoadInt32(&m.totalSegments)),
			Level:   LevelVerbose,
		})
	}
}

// tagOutput writes ID3 tags to mp3 outputs. Failures are only reported.
func (m *Manager) tagOutput(ctx context.Context, path string) {
	if !m.settings.TagOutput || !m.tagger.Supports(path) {
		return
	}

	tags := audio.Tags{
		Title:  m.settings.TagTitle,
		Artist: m.settings.TagArtist,
		Album:  m.settings.TagAlbum,
	}
	if tags.Title == "" && m.playlist.Variant != nil {
		tags.Title = m.playlist.Variant.Name
	}

	var artwork []byte
	if m.settings.CoverArtURL != "" {
		var err error
		artwork, err = m.downloadArtwork(ctx)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading cover art: %v", err), Level: LevelWarning})
		}
	}

	if tags == (audio.Tags{}) && artwork == nil {
		return
	}

	if err := m.tagger.SaveTags(path, tags, artwork); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", path, err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged %s", path), Level: LevelVerbose})
}

func (m *Manager) downloadArtwork(ctx context.Context) ([]byte, error) {
	data, err := retry.DoValue(ctx, m.settings.ToRetryPolicy(), func(ctx context.Context) ([]byte, error) {
		return m.httpClient.Get(ctx, m.settings.CoverArtURL)
	})
	if err != nil {
		return nil, err
	}
	return m.imageService.PrepareCover(ctx, data, m.settings.CoverArtMaxSize)
}

func (m *Manager) cleanup(ws *ioutils.Workspace) {
	if err := ws.Remove(); err != nil {
		log.Warn().Str("workspace", ws.Path()).Err(err).Msg("workspace cleanup failed")
	}
}

func (m *Manager) resetProgress() {
	atomic.StoreInt32(&m.downloadedSegments, 0)
	atomic.StoreInt32(&m.failedSegments, 0)
	atomic.StoreInt64(&m.receivedBytes, 0)

	m.mu.Lock()
	m.failed = nil
	m.mu.Unlock()
}

func (m *Manager) failedIndices() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]int(nil), m.failed...)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
