package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFlag = flag.String("config", "", "Path to config file (default: "+config.DefaultPath()+")")
		logFlag    = flag.String("log", "", "Write debug logs to this file")
	)
	flag.Parse()

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	log.Logger = zerolog.New(io.Discard)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return tui.Run(settings)
}
