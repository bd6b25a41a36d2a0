// Package ui wires the command line interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/db"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/logging"
	"github.com/javiermolinar/weekgrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       event.Repository
	config     *config.Config
	configPath string
	logger     *log.Logger
	closeLog   func() error
	out        io.Writer
	root       *cobra.Command
	debug      bool
	noColor    bool
	week       string
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the configured database path.
func NewApp(repo event.Repository, cfg *config.Config, configPath string) *App {
	a := &App{
		repo:       repo,
		config:     cfg,
		configPath: configPath,
		logger:     log.Default(),
		out:        os.Stdout,
	}

	a.root = &cobra.Command{
		Use:   "weekgrid",
		Short: "A drag-and-resize week scheduler for the terminal",
		Long: `weekgrid shows the week as a grid of day rows on a shared time axis.

Drag blocks between days, drag their edges to resize them and double-click
an empty cell to create an event. Every change is saved as you go.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.setupLogging(cmd == a.root)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")
	a.root.Flags().StringVar(&a.week, "week", "", "Open the week containing this date (YYYY-MM-DD, today, next-week...)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.tagsCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "weekgrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setupLogging builds the process logger. The TUI owns the terminal, so it
// only logs to the configured file; subcommands log to stderr.
func (a *App) setupLogging(tuiMode bool) error {
	opts := logging.Options{
		Level:   a.config.Logging.Level,
		Prefix:  "weekgrid",
		Console: os.Stderr,
	}
	if a.debug {
		opts.Level = "debug"
	}
	if tuiMode {
		opts.File = a.config.Logging.File
		opts.Console = nil
	}

	logger, closeFn, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeFn
	log.SetDefault(logger)
	return nil
}

// ensureRepo opens the configured database when no repository was given.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	a.logger.Debug("database opened", "path", a.config.Storage.DBPath)
	return nil
}

func (a *App) runTUI(ctx context.Context) error {
	if err := a.ensureRepo(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []tui.ModelOption{tui.WithLogger(a.logger)}
	if a.week != "" {
		day, err := dateutil.ParseRelativeDate(a.week, now())
		if err != nil {
			return fmt.Errorf("--week: %w", err)
		}
		opts = append(opts, tui.WithWeek(day))
	}

	watcher, err := config.NewWatcher(a.configPath, config.WithWatchLogger(a.logger))
	if err != nil {
		a.logger.Warn("config hot reload disabled", "err", err)
	} else {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		defer func() { _ = watcher.Close() }()
		go watcher.Run(ctx)
		opts = append(opts, tui.WithConfigUpdates(watcher.Updates()))
	}

	return tui.Run(a.repo, a.config, opts...)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetArgs overrides os.Args, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and the log file.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}
