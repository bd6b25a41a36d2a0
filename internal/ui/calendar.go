package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/ical"
)

func (a *App) exportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "export [file.ics]",
		Short: "Export events as iCalendar",
		Long: `Write the events of a date range to an .ics file, or to stdout when
no file or "-" is given. The range defaults to the current week.

Example:
  weekgrid export week.ics --from=2025-01-06 --to=2025-01-12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			start, end, err := exportRange(from, to, now())
			if err != nil {
				return err
			}

			path := firstArg(args)
			if path == "" || path == "-" {
				_, err := exportEvents(cmd.Context(), a.repo, a.out, start, end)
				return err
			}

			path, err = resolvePath(path)
			if err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			n, err := exportEvents(cmd.Context(), a.repo, f, start, end)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d events to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, default: this Monday)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, inclusive (YYYY-MM-DD, default: from + 6 days)")
	return cmd
}

func (a *App) importCmd() *cobra.Command {
	var from string
	var weeks int

	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import events from iCalendar",
		Long: `Read an .ics file and save its events. Recurring events are expanded
over the import range. All-day and multi-day events are skipped. Importing
the same file twice updates the events instead of duplicating them.

Example:
  weekgrid import work.ics --weeks=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if weeks <= 0 {
				return fmt.Errorf("--weeks must be positive")
			}
			day, err := dateutil.ParseRelativeDate(from, now())
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			monday, _ := dateutil.WeekRange(day)

			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			n, skipped, err := importEvents(cmd.Context(), a.repo, a.config, f, monday, monday.AddDate(0, 0, 7*weeks))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d events from %s (%d skipped)\n", n, path, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Any day of the first week to import (default: today)")
	cmd.Flags().IntVar(&weeks, "weeks", 4, "Number of weeks to import")
	return cmd
}

// exportRange resolves the --from/--to flags into [start, end).
func exportRange(from, to string, ref time.Time) (time.Time, time.Time, error) {
	start, _ := dateutil.WeekRange(ref)
	if from != "" {
		d, err := dateutil.ParseRelativeDate(from, ref)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
		start = d
	}
	last := start.AddDate(0, 0, 6)
	if to != "" {
		d, err := dateutil.ParseRelativeDate(to, ref)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
		last = d
	}
	if last.Before(start) {
		return time.Time{}, time.Time{}, dateutil.ErrEndDateBeforeStart
	}
	return start, last.AddDate(0, 0, 1), nil
}

func exportEvents(ctx context.Context, repo event.Repository, w io.Writer, start, end time.Time) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events, err := repo.ListEventsByRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("listing events: %w", err)
	}
	tags, err := repo.ListTags(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing tags: %w", err)
	}
	if err := ical.Export(w, events, tags, now()); err != nil {
		return 0, err
	}
	return len(events), nil
}

// importEvents saves the calendar's events within [start, end). Events
// outside the configured days and day windows are counted as skipped.
func importEvents(ctx context.Context, repo event.Repository, cfg *config.Config, r io.Reader, start, end time.Time) (int, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tags, err := repo.ListTags(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("listing tags: %w", err)
	}
	bcfg, err := cfg.Board()
	if err != nil {
		return 0, 0, fmt.Errorf("board config: %w", err)
	}

	events, skipped, err := ical.Import(r, tags, ical.ExpandOptions{
		RangeStart:      start,
		RangeEnd:        end,
		Location:        time.Local,
		DefaultDuration: bcfg.DefaultDuration,
	})
	if err != nil {
		return 0, 0, err
	}

	changes := make([]event.Change, 0, len(events))
	for _, e := range events {
		if !slices.Contains(bcfg.Days, e.Start.Weekday()) ||
			e.Start.Before(dateutil.AtClock(e.Start, bcfg.DayStart)) ||
			e.End.After(dateutil.AtClock(e.Start, bcfg.DayEnd)) {
			skipped++
			continue
		}
		changes = append(changes, event.NewChange(event.ChangeCreated, e))
	}
	if err := repo.ApplyChanges(ctx, changes); err != nil {
		return 0, 0, fmt.Errorf("saving events: %w", err)
	}
	return len(changes), skipped, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
