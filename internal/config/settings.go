package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/hls-downloader/internal/http"
	"github.com/handiism/hls-downloader/internal/retry"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir        string `yaml:"output_dir"`
	WorkspaceDir     string `yaml:"workspace_dir"`
	SegmentExtension string `yaml:"segment_extension"`

	// Download settings
	MaxConcurrentSegments int           `yaml:"max_concurrent_segments"`
	DownloadMaxRetries    int           `yaml:"download_max_retries"`
	DownloadRetryDelay    time.Duration `yaml:"download_retry_delay"`
	RequestTimeout        time.Duration `yaml:"request_timeout"`

	// Request settings
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`

	// Tag settings (mp3 outputs only)
	TagOutput       bool   `yaml:"tag_output"`
	TagTitle        string `yaml:"tag_title"`
	TagArtist       string `yaml:"tag_artist"`
	TagAlbum        string `yaml:"tag_album"`
	CoverArtURL     string `yaml:"cover_art_url"`
	CoverArtMaxSize int    `yaml:"cover_art_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:        ".",
		WorkspaceDir:     os.TempDir(),
		SegmentExtension: "ts",

		MaxConcurrentSegments: 10,
		DownloadMaxRetries:    retry.DefaultRetries,
		DownloadRetryDelay:    retry.DefaultDelay,
		RequestTimeout:        60 * time.Second,

		UserAgent: http.DefaultUserAgent,

		TagOutput:       true,
		CoverArtMaxSize: 1000,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hls-downloader.yml"
	}
	return filepath.Join(dir, "hls-downloader", "config.yml")
}

// Load reads settings from a YAML file.
//
// A missing or empty file yields the defaults. Keys absent from the file
// keep their default value.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) == 0 {
		return settings, nil
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	settings.SegmentExtension = strings.TrimPrefix(strings.TrimSpace(settings.SegmentExtension), ".")

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the downloader cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	if s.MaxConcurrentSegments < 1 {
		errs = append(errs, fmt.Errorf("invalid max_concurrent_segments: %d (must be >= 1)", s.MaxConcurrentSegments))
	}
	if s.DownloadMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("invalid download_max_retries: %d (must be >= 0)", s.DownloadMaxRetries))
	}
	if s.DownloadRetryDelay < 0 {
		errs = append(errs, fmt.Errorf("invalid download_retry_delay: %s", s.DownloadRetryDelay))
	}
	if s.SegmentExtension == "" {
		errs = append(errs, errors.New("segment_extension must not be empty"))
	}
	return errors.Join(errs...)
}

// ToClientOptions converts settings to http.Options.
func (s *Settings) ToClientOptions() http.Options {
	return http.Options{
		Timeout:   s.RequestTimeout,
		UserAgent: s.UserAgent,
		Headers:   s.Headers,
	}
}

// ToRetryPolicy converts settings to a retry.Policy.
func (s *Settings) ToRetryPolicy() retry.Policy {
	return retry.Policy{
		Retries: s.DownloadMaxRetries,
		Delay:   s.DownloadRetryDelay,
	}
}
