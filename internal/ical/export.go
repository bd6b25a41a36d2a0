package ical

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/javiermolinar/weekgrid/internal/event"
)

// ProductID identifies calendars written by weekgrid.
const ProductID = "-//weekgrid//weekgrid//EN"

// Export writes events as a PUBLISH calendar. Each VEVENT carries the tag
// name as CATEGORIES and the tag id as X-WEEKGRID-TAG.
func Export(w io.Writer, events []*event.Event, tags event.Tags, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(e.Start.UTC())
		ve.SetEndAt(e.End.UTC())
		ve.SetSummary(e.Title)
		if e.Details != "" {
			ve.SetDescription(e.Details)
		}
		if tag, ok := tags.Lookup(e.TagID); ok {
			ve.SetProperty(ics.ComponentPropertyCategories, tag.Name)
			ve.SetProperty(TagProperty, tag.ID)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
