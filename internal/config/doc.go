// Package config provides configuration management for hls-downloader.
//
// This package handles:
//   - Loading and saving settings from YAML files
//   - Default configuration values
//   - Validation
//   - Conversion to http.Options and retry.Policy for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// 10 concurrent segment downloads
//	// 3 retries, 500ms apart
//	// segments stored as .ts in os.TempDir()
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // invalid YAML or invalid values; a missing file is not an error
//	}
//
// # Example File
//
//	output_dir: /videos
//	max_concurrent_segments: 16
//	download_max_retries: 5
//	download_retry_delay: 1s
//	headers:
//	  Referer: https://example.com/
package config
