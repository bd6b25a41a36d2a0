// Package logging builds the structured logger shared by the CLI and TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Options configures New.
type Options struct {
	Level   string    // charm log level name: debug, info, warn, error, fatal
	File    string    // when set, logs go to this file in logfmt
	Prefix  string    // prepended to every line
	Console io.Writer // text sink used when File is empty; nil discards
}

// New returns a logger and a close func releasing the file sink.
func New(opts Options) (*log.Logger, func() error, error) {
	name := opts.Level
	if name == "" {
		name = DefaultLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, nil, fmt.Errorf("parse logging level %q: %w", name, err)
	}

	if opts.File == "" {
		w := opts.Console
		if w == nil {
			w = io.Discard
		}
		logger := log.NewWithOptions(w, log.Options{
			Level:           level,
			Prefix:          opts.Prefix,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       log.TextFormatter,
		})
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f.Close, nil
}
