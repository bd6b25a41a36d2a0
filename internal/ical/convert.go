package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
)

// Import parses the calendar in r, expands it over the options' range and
// converts the result into events.
func Import(r io.Reader, tags event.Tags, opts ExpandOptions) ([]*event.Event, int, error) {
	entries, err := Parse(r, opts.Logger)
	if err != nil {
		return nil, 0, err
	}
	occs, err := Expand(entries, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("import: %w", err)
	}
	events, skipped := ToEvents(occs, tags)
	return events, skipped, nil
}

// ToEvents converts occurrences into board events. All-day occurrences
// and occurrences spanning more than one day are dropped.
//
// Event ids are stable across imports: a single event keeps its UID and a
// recurring instance gets a name-based UUID derived from UID and start.
func ToEvents(occs []Occurrence, tags event.Tags) (events []*event.Event, skipped int) {
	for _, o := range occs {
		if o.Entry.AllDay || !sameDate(o.Start, o.End) {
			skipped++
			continue
		}
		e, err := event.New(occurrenceID(o), board.RowIDFor(o.Start.Weekday()),
			o.Start, o.End, matchTag(o.Entry, tags), title(o.Entry))
		if err != nil {
			skipped++
			continue
		}
		e.Details = o.Entry.Description
		events = append(events, e)
	}
	return events, skipped
}

func occurrenceID(o Occurrence) string {
	uid := o.Entry.UID
	if uid == "" {
		return uuid.NewString()
	}
	if !o.Recurring {
		return uid
	}
	name := uid + "|" + o.Start.UTC().Format("20060102T150405Z")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// matchTag resolves the tag by X-WEEKGRID-TAG, then by category name, then
// falls back to the first tag.
func matchTag(e Entry, tags event.Tags) string {
	if _, ok := tags.Lookup(e.TagID); ok && e.TagID != "" {
		return e.TagID
	}
	for _, c := range e.Categories {
		for _, t := range tags {
			if strings.EqualFold(t.Name, c) {
				return t.ID
			}
		}
	}
	return tags.First()
}

func title(e Entry) string {
	if s := strings.TrimSpace(e.Summary); s != "" {
		return s
	}
	return event.DefaultTitle
}

// sameDate reports whether [start, end) stays within start's day. An end at
// the following midnight still counts.
func sameDate(start, end time.Time) bool {
	y, m, d := start.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, start.Location())
	return !end.After(next)
}
