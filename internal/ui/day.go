package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekgrid/internal/dateutil"
)

func (a *App) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show a day's events and their lanes",
		Long: `Show the events of one day in start order, with the lane each one
occupies when overlapping events are stacked.

Example:
  weekgrid day tomorrow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			day, err := dateutil.ParseRelativeDate(firstArg(args), now())
			if err != nil {
				return err
			}
			b, tags, err := weekBoard(cmd.Context(), a.repo, a.config, day, nil)
			if err != nil {
				return err
			}
			row, err := dayRow(b, day)
			if err != nil {
				return err
			}
			printRow(a.out, row, tags, termWidth())
			return nil
		},
	}
}

func (a *App) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show the week's events",
		Long: `Show every scheduled day of the week containing date, followed by
the time booked per tag.

Example:
  weekgrid week next-week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			day, err := dateutil.ParseRelativeDate(firstArg(args), now())
			if err != nil {
				return err
			}
			b, tags, err := weekBoard(cmd.Context(), a.repo, a.config, day, nil)
			if err != nil {
				return err
			}

			start := b.WeekStart()
			header := fmt.Sprintf("WEEK: %s - %s", start.Format("Mon Jan 2"), start.AddDate(0, 0, 6).Format("Mon Jan 2, 2006"))
			fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
			width := termWidth()
			for _, row := range b.Rows() {
				fmt.Fprintln(a.out)
				printRow(a.out, row, tags, width)
			}
			fmt.Fprintln(a.out)
			printTotals(a.out, b.Events(), tags)
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
