package ui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
)

// printRow prints a day header and one line per event:
//
//	09:00 - 10:00  lane 1/2  💼 Work  Standup
func printRow(w io.Writer, row *board.Row, tags event.Tags, width int) {
	win := row.Window()
	fmt.Fprintf(w, "  %s  %s\n", formatHeader(win.Start.Format("Mon Jan 2")), formatMuted(event.FormatRange(win.Start, win.End)))

	placements := row.Placements()
	if len(placements) == 0 {
		fmt.Fprintf(w, "    %s\n", formatMuted("no events"))
		return
	}
	slices.SortStableFunc(placements, func(a, b board.Placement) int {
		if c := a.Event.Start.Compare(b.Event.Start); c != 0 {
			return c
		}
		return a.Slot.Lane - b.Slot.Lane
	})

	for _, p := range placements {
		e := p.Event
		prefix := fmt.Sprintf("    %s  %s  ", e.TimeLabel(), formatMuted(laneLabel(p.Slot.Lane, p.Slot.Span, p.Slot.Lanes)))
		tag, _ := tags.Lookup(e.TagID)
		line := prefix + formatTag(tag, tagLabel(tags, e.TagID)) + "  " + e.Title
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		fmt.Fprintln(w, line)
	}
}

// laneLabel formats a lane slot as "lane 1/2" or "lanes 2-3/3".
func laneLabel(lane, span, lanes int) string {
	if span <= 1 {
		return fmt.Sprintf("lane %d/%d", lane+1, lanes)
	}
	return fmt.Sprintf("lanes %d-%d/%d", lane+1, lane+span, lanes)
}

// printTotals prints the time booked per tag, in tag order.
func printTotals(w io.Writer, events []*event.Event, tags event.Tags) {
	totals := make(map[string]time.Duration)
	var all time.Duration
	for _, e := range events {
		totals[e.TagID] += e.Duration()
		all += e.Duration()
	}
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, tag := range tags {
		if d, ok := totals[tag.ID]; ok {
			fmt.Fprintf(w, "  %s %s\n", pad(formatTag(tag, tagLabel(tags, tag.ID)), 20), formatStats(formatDuration(d)))
			delete(totals, tag.ID)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(totals)) {
		fmt.Fprintf(w, "  %s %s\n", pad(tagLabel(tags, id), 20), formatStats(formatDuration(totals[id])))
	}
	fmt.Fprintf(w, "  %s %s\n", pad(formatHeader("Total"), 20), formatStats(formatDuration(all)))
}

// formatDuration formats d as "1h30m", "2h" or "45m".
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

func tagLabel(tags event.Tags, id string) string {
	tag, _ := tags.Lookup(id)
	return strings.TrimSpace(tag.Emoji + " " + tag.Name)
}

// pad right-pads s to width display cells, ignoring escape sequences.
func pad(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
