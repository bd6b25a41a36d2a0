package ical

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/teambition/rrule-go"
)

// DefaultMaxOccurrences caps the instances produced by one recurring entry.
const DefaultMaxOccurrences = 1000

// Occurrence is one concrete instance of an entry.
type Occurrence struct {
	Entry     Entry
	Start     time.Time
	End       time.Time
	Recurring bool
}

// ExpandOptions bounds recurrence expansion.
type ExpandOptions struct {
	RangeStart      time.Time
	RangeEnd        time.Time
	Location        *time.Location // occurrences are converted here; nil means time.Local
	DefaultDuration time.Duration  // used for entries without DTEND
	MaxOccurrences  int
	Logger          *log.Logger
}

// Expand turns entries into occurrences intersecting [RangeStart, RangeEnd].
// RRULE sets honor EXDATE, and instances overridden by a RECURRENCE-ID
// entry take the override's times and fields.
func Expand(entries []Entry, opts ExpandOptions) ([]Occurrence, error) {
	if opts.RangeEnd.Before(opts.RangeStart) {
		return nil, fmt.Errorf("expand: range end %v before start %v", opts.RangeEnd, opts.RangeStart)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = DefaultMaxOccurrences
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	overrides := make(map[string][]Entry)
	var bases []Entry
	for _, e := range entries {
		if e.RecurrenceID != nil {
			overrides[e.UID] = append(overrides[e.UID], e)
			continue
		}
		bases = append(bases, e)
	}

	var out []Occurrence
	for _, e := range bases {
		if e.RRule == "" {
			if overlaps(e.Start, endOf(e, opts.DefaultDuration), opts.RangeStart, opts.RangeEnd) {
				out = append(out, occurrence(e, e.Start, endOf(e, opts.DefaultDuration), false, opts.Location))
			}
			continue
		}
		out = append(out, expandRecurring(e, overrides[e.UID], opts)...)
	}
	return out, nil
}

func expandRecurring(e Entry, overrides []Entry, opts ExpandOptions) []Occurrence {
	rule, err := rrule.StrToRRule(e.RRule)
	if err != nil {
		opts.Logger.Warn("skipping invalid RRULE", "uid", e.UID, "rrule", e.RRule, "err", err)
		return nil
	}
	rule.DTStart(e.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range e.ExDates {
		set.ExDate(ex.In(e.Start.Location()))
	}

	loc := e.Start.Location()
	starts := set.Between(opts.RangeStart.In(loc), opts.RangeEnd.In(loc), true)
	if len(starts) > opts.MaxOccurrences {
		opts.Logger.Warn("recurrence truncated", "uid", e.UID, "cap", opts.MaxOccurrences)
		starts = starts[:opts.MaxOccurrences]
	}

	duration := endOf(e, opts.DefaultDuration).Sub(e.Start)
	out := make([]Occurrence, 0, len(starts))
	for _, s := range starts {
		if o, ok := findOverride(overrides, s); ok {
			out = append(out, occurrence(o, o.Start, endOf(o, opts.DefaultDuration), true, opts.Location))
			continue
		}
		out = append(out, occurrence(e, s, s.Add(duration), true, opts.Location))
	}
	return out
}

func findOverride(overrides []Entry, start time.Time) (Entry, bool) {
	for _, o := range overrides {
		if o.RecurrenceID.Equal(start) {
			return o, true
		}
	}
	return Entry{}, false
}

// endOf returns the end of e, falling back to one day for all-day entries
// and to fallback otherwise.
func endOf(e Entry, fallback time.Duration) time.Time {
	if e.End.After(e.Start) {
		return e.End
	}
	if e.AllDay {
		return e.Start.AddDate(0, 0, 1)
	}
	return e.Start.Add(fallback)
}

func occurrence(e Entry, start, end time.Time, recurring bool, loc *time.Location) Occurrence {
	return Occurrence{
		Entry:     e,
		Start:     start.In(loc),
		End:       end.In(loc),
		Recurring: recurring,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
