package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...". Defaults to dev.
var version = "dev"

// cliConfig holds user supplied flag values prior to validation so main.go
// can map them onto the preload/playback collaborators.
type cliConfig struct {
	inputPath   string
	swfVersion  uint
	logLevel    string
	frames      int
	gotoFrame   int
	gotoLabel   string
	showVersion bool
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("swfplayer", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.inputPath, "input", "", "Path to a raw SWF tag-stream file (root movie body, no FWS/CWS header)")
	fs.UintVar(&cfg.swfVersion, "swf-version", 6, "SWF header version, gates clip-event dispatch (§4.8)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.IntVar(&cfg.frames, "frames", 1, "Number of frames to advance linearly before any -goto")
	fs.IntVar(&cfg.gotoFrame, "goto", 0, "Frame number to seek to after linear advancement (0 = no seek)")
	fs.StringVar(&cfg.gotoLabel, "goto-label", "", "Frame label to seek to after linear advancement (overrides -goto)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.showVersion {
		return cfg, nil
	}

	if cfg.inputPath == "" {
		return nil, errors.New("-input is required")
	}
	if cfg.swfVersion == 0 || cfg.swfVersion > 63 {
		return nil, fmt.Errorf("swf-version must be between 1 and 63, got %d", cfg.swfVersion)
	}
	if cfg.frames < 0 {
		return nil, errors.New("-frames must be non-negative")
	}

	switch cfg.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q", cfg.logLevel)
	}

	return cfg, nil
}
