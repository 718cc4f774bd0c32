package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/download"
	"github.com/handiism/hls-downloader/internal/manifest"
	"github.com/handiism/hls-downloader/internal/model"
)

// Exit codes.
const (
	exitOK        = 0
	exitFatal     = 1
	exitDegraded  = 2
	exitCancelled = 130
)

// headerFlag collects repeated -header "Name: value" flags.
type headerFlag map[string]string

func (h headerFlag) String() string {
	parts := make([]string, 0, len(h))
	for k, v := range h {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ", ")
}

func (h headerFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected \"Name: value\", got %q", value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(val)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	headers := headerFlag{}

	// Command line flags
	var (
		urlFlag         = flag.String("url", "", "Playlist URL (.m3u8)")
		outputFlag      = flag.String("output", "", "Output file (default: <output_dir>/<timestamp>.<ext>)")
		configFlag      = flag.String("config", "", "Path to config file (default: "+config.DefaultPath()+")")
		concurrencyFlag = flag.Int("concurrency", 0, "Maximum concurrent segment downloads (overrides config)")
		retriesFlag     = flag.Int("retries", -1, "Retries per segment (overrides config)")
		retryDelayFlag  = flag.Duration("retry-delay", -1, "Delay between retries (overrides config)")
		extFlag         = flag.String("ext", "", "Segment file extension (overrides config)")
		variantFlag     = flag.String("variant", "", "Variant to download: 1-based index or \"best\" (default: prompt)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Resolve the playlist without downloading")
		saveConfigFlag  = flag.Bool("save-config", false, "Write the effective settings to the config file and exit")
	)
	flag.StringVar(outputFlag, "o", "", "Shorthand for -output")
	flag.Var(headers, "header", "Extra request header \"Name: value\" (repeatable)")

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitFatal
	}

	// Apply flags
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentSegments = *concurrencyFlag
	}
	if *retriesFlag >= 0 {
		settings.DownloadMaxRetries = *retriesFlag
	}
	if *retryDelayFlag >= 0 {
		settings.DownloadRetryDelay = *retryDelayFlag
	}
	if *extFlag != "" {
		settings.SegmentExtension = strings.TrimPrefix(*extFlag, ".")
	}
	if len(headers) > 0 {
		if settings.Headers == nil {
			settings.Headers = map[string]string{}
		}
		for k, v := range headers {
			settings.Headers[k] = v
		}
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		return exitFatal
	}

	if *saveConfigFlag {
		if err := settings.Save(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			return exitFatal
		}
		fmt.Printf("Settings written to %s\n", configPath)
		return exitOK
	}

	playlistURL := *urlFlag
	if playlistURL == "" && flag.NArg() > 0 {
		playlistURL = flag.Arg(0)
	}
	if playlistURL == "" {
		fmt.Println("HLS Downloader - Download and merge HLS streams")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  hls-dl -url <URL> [options]")
		fmt.Println("  hls-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: hls-tui")
		fmt.Println()
		flag.PrintDefaults()
		return exitFatal
	}

	choose, err := selector(*variantFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -variant: %v\n", err)
		return exitFatal
	}

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// After the first interrupt, restore default handling so a second one
	// kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		var prefix string
		switch event.Level {
		case download.LevelError:
			prefix = "[error] "
		case download.LevelWarning:
			prefix = "[warn]  "
		case download.LevelSuccess:
			prefix = "[done]  "
		case download.LevelInfo:
			prefix = "[info]  "
		default:
			prefix = "        "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("HLS Downloader")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	if err := manager.Initialize(ctx, playlistURL, choose); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			return exitCancelled
		}
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		return exitFatal
	}

	if *dryRunFlag {
		printPlaylist(manager.Playlist())
		fmt.Println("\n[Dry run - not downloading]")
		return exitOK
	}

	fmt.Println("\nStarting downloads...")
	fmt.Println()

	started := time.Now()
	summary, err := manager.StartDownloads(ctx, *outputFlag)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			return exitCancelled
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		return exitFatal
	}

	return printSummary(os.Stdout, summary, time.Since(started))
}

// selector maps the -variant flag to a manifest.Selector.
func selector(value string) (manifest.Selector, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return manifest.PromptSelector(os.Stdin, os.Stdout), nil
	case "best":
		return manifest.HighestBandwidth, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("want a positive index or \"best\", got %q", value)
	}
	return manifest.FixedIndex(n - 1), nil
}

func printPlaylist(pl *manifest.Playlist) {
	fmt.Println()
	fmt.Printf("Playlist: %s\n", pl.URL)
	if pl.Variant != nil {
		fmt.Printf("Variant:  %s\n", pl.Variant.Label())
	}
	fmt.Printf("Segments: %d (%.1fs)\n", len(pl.Segments), model.TotalDuration(pl.Segments))
	for _, seg := range pl.Segments {
		fmt.Printf("  %s  %s\n", model.SegmentFileName(seg.Index, "*"), seg.URL)
	}
}

func printSummary(w io.Writer, s *model.Summary, elapsed time.Duration) int {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if !s.Merged {
		if s.Total == 0 {
			fmt.Fprintln(w, "Nothing to merge: the playlist has no segments")
		} else {
			fmt.Fprintf(w, "Nothing to merge: all %d segments failed\n", s.Total)
		}
		return exitDegraded
	}

	fmt.Fprintf(w, "Saved %s\n", s.OutputPath)
	fmt.Fprintf(w, "Downloaded %d/%d segments (%.2f MB) in %s\n",
		s.Downloaded, s.Total, float64(s.Bytes)/1024/1024, elapsed.Round(time.Second))

	if !s.Complete() {
		fmt.Fprintf(w, "Skipped segments: %v\n", s.Failed)
		return exitDegraded
	}
	return exitOK
}
