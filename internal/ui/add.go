package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/scheduler"
)

type addOptions struct {
	Title   string
	Date    string
	Start   string
	End     string
	Tag     string
	Details string
}

func (a *App) addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event",
		Long: `Add an event to a day of the schedule.

The start and end are snapped to the grid. Without --end the event gets the
default duration. Without --start it goes in the first free slot of the day.

Example:
  weekgrid add "Write documentation" --date=2025-01-10 --start=09:00 --end=11:00 --tag=work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Title = args[0]
			}

			e, tags, err := addEvent(cmd.Context(), a.repo, a.config, opts, now())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s %s %s [%s]\n",
				e.Start.Format("Mon Jan 2"), e.TimeLabel(), e.Title, tagLabel(tags, e.TagID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Day of the event (YYYY-MM-DD, today, tomorrow, monday..., default: today)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Start time (HH:MM, default: first free slot)")
	cmd.Flags().StringVar(&opts.End, "end", "", "End time (HH:MM, default: start + default duration)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Tag id or name (default: first tag)")
	cmd.Flags().StringVar(&opts.Details, "details", "", "Free-form notes")

	return cmd
}

// addEvent creates the event on a board of its week, so it is snapped and
// checked against the day window like a click in the grid, and persists the
// resulting changes.
func addEvent(ctx context.Context, repo event.Repository, cfg *config.Config, opts addOptions, ref time.Time) (*event.Event, event.Tags, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	day, err := dateutil.ParseRelativeDate(opts.Date, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("--date: %w", err)
	}
	var changes []event.Change
	b, tags, err := weekBoard(ctx, repo, cfg, day, func(c event.Change) {
		changes = append(changes, c)
	})
	if err != nil {
		return nil, nil, err
	}
	row, err := dayRow(b, day)
	if err != nil {
		return nil, nil, err
	}
	tagID, err := resolveTag(tags, opts.Tag)
	if err != nil {
		return nil, nil, err
	}

	w := row.Window()
	var start time.Time
	if opts.Start == "" {
		if opts.End != "" {
			return nil, nil, fmt.Errorf("--end requires --start")
		}
		from := w.Start
		if ref.After(from) && ref.Before(w.End) {
			from = ref
		}
		slot, ok := scheduler.NextFree(b, from, b.Config().DefaultDuration)
		if !ok || slot.Row != row {
			return nil, nil, fmt.Errorf("no free %s slot on %s", formatDuration(b.Config().DefaultDuration), day.Format("Mon Jan 2"))
		}
		start = slot.Start
	} else {
		startClock, err := dateutil.ParseClock(opts.Start)
		if err != nil {
			return nil, nil, fmt.Errorf("--start: %w", err)
		}
		start = day.Add(startClock)
		if start.Before(w.Start) || !start.Before(w.End) {
			return nil, nil, fmt.Errorf("start %s is outside the day (%s)", opts.Start, event.FormatRange(w.Start, w.End))
		}
	}

	end := time.Time{}
	if opts.End != "" {
		endClock, err := dateutil.ParseClock(opts.End)
		if err != nil {
			return nil, nil, fmt.Errorf("--end: %w", err)
		}
		end = row.Grid().Snap(day.Add(endClock))
		if end.After(w.End) {
			return nil, nil, fmt.Errorf("end %s is outside the day (%s)", opts.End, event.FormatRange(w.Start, w.End))
		}
	}

	created, err := row.CreateEventAt(start, tagID)
	if err != nil {
		return nil, nil, err
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = event.DefaultTitle
	}
	e, err := row.UpdateEvent(created.ID, func(ev *event.Event) {
		ev.Title = title
		ev.Details = opts.Details
		switch {
		case !end.IsZero():
			ev.End = end
		case ev.End.After(w.End):
			ev.End = w.End
		}
	})
	if err != nil {
		return nil, nil, err
	}

	if err := repo.ApplyChanges(ctx, changes); err != nil {
		return nil, nil, fmt.Errorf("saving event: %w", err)
	}
	return e, tags, nil
}
