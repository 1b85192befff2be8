// Package ics renders a parsed listing file as an iCalendar document, so the
// same events can be imported somewhere other than Canvas.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/coursetools/canvascal/internal/events"
)

// Build assembles a VCALENDAR from events whose dates are already in
// WireFormat. Each VEVENT gets a fresh random UID.
func Build(evs []events.Event) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//canvascal//event export//EN")

	now := time.Now().UTC()
	for _, ev := range evs {
		start, err := time.Parse(events.WireFormat, ev.StartAt)
		if err != nil {
			return nil, fmt.Errorf("ics: bad start_at %q: %w", ev.StartAt, err)
		}
		end, err := time.Parse(events.WireFormat, ev.EndAt)
		if err != nil {
			return nil, fmt.Errorf("ics: bad end_at %q: %w", ev.EndAt, err)
		}

		e := cal.AddEvent(uuid.NewString())
		e.SetDtStampTime(now)
		e.SetStartAt(start)
		e.SetEndAt(end)
		e.SetSummary(ev.Title)
		if ev.Description != "" {
			e.SetDescription(ev.Description)
		}
	}
	return cal, nil
}

// Write serializes the events to w in iCalendar form.
func Write(w io.Writer, evs []events.Event) error {
	cal, err := Build(evs)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, cal.Serialize())
	return err
}
