// Package ical converts between board events and iCalendar (.ics) data.
package ical

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/charmbracelet/log"
)

// TagProperty carries the weekgrid tag id of an exported event.
const TagProperty ics.ComponentProperty = "X-WEEKGRID-TAG"

// Entry is one VEVENT as read from a calendar. Recurrences are kept raw;
// Expand turns them into occurrences.
type Entry struct {
	UID         string
	Summary     string
	Description string
	Categories  []string
	TagID       string

	Start  time.Time
	End    time.Time // zero when the VEVENT has no DTEND
	AllDay bool

	RRule        string
	ExDates      []time.Time
	RecurrenceID *time.Time // set on overrides of a single instance
}

// Parse reads every VEVENT of the calendar in r. Events that cannot be
// read are logged and skipped.
func Parse(r io.Reader, logger *log.Logger) ([]Entry, error) {
	if logger == nil {
		logger = log.Default()
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var entries []Entry
	for _, ve := range cal.Events() {
		entry, err := parseEvent(ve)
		if err != nil {
			logger.Warn("skipping vevent", "uid", ve.Id(), "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	logger.Debug("calendar parsed", "events", len(entries))
	return entries, nil
}

func parseEvent(ve *ics.VEvent) (Entry, error) {
	var out Entry

	if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil {
		out.UID = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		out.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		out.Description = unescapeText(p.Value)
	}
	for _, p := range ve.GetProperties(ics.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.TrimSpace(unescapeText(c)); c != "" {
				out.Categories = append(out.Categories, c)
			}
		}
	}
	if p := ve.GetProperty(TagProperty); p != nil {
		out.TagID = strings.TrimSpace(p.Value)
	}

	dtStart := ve.GetProperty(ics.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.New("missing DTSTART")
	}
	out.AllDay = isDateValue(dtStart)

	start, err := ve.GetStartAt()
	if err != nil && out.AllDay {
		start, err = parseTime(dtStart.Value, propertyLocation(dtStart, time.Local))
	}
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	out.Start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.End = end
	}

	if p := ve.GetProperty(ics.ComponentPropertyRrule); p != nil {
		out.RRule = strings.TrimSpace(p.Value)
	}
	for _, p := range ve.GetProperties(ics.ComponentPropertyExdate) {
		loc := propertyLocation(p, start.Location())
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty(ics.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseTime(p.Value, propertyLocation(p, start.Location())); err == nil {
			out.RecurrenceID = &t
		}
	}
	return out, nil
}

// isDateValue reports whether a DTSTART is a DATE (all-day) value.
func isDateValue(p *ics.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// propertyLocation returns the TZID location of p, or fallback.
func propertyLocation(p *ics.IANAProperty, fallback *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseTime reads the DATE and DATE-TIME forms used by EXDATE and
// RECURRENCE-ID.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\;`, ";", `\,`, ",", `\n`, "\n", `\N`, "\n")

// unescapeText decodes RFC 5545 TEXT escapes.
func unescapeText(v string) string {
	return textUnescaper.Replace(v)
}
