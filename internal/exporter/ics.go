package exporter

import (
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-ical"

	"ecocal/pkg/contracts/domain"
)

const icsProductID = "-//ecocal//Economic Calendar//EN"

// eventDuration is the nominal slot length for timed releases in the
// ICS feed. Releases are instants; a short slot renders better in
// calendar clients than a zero-length event.
const eventDuration = 15 * time.Minute

// WriteICS renders the snapshot as an iCalendar feed, one VEVENT per
// release. Sentinel-timed events become midnight-anchored day events.
func WriteICS(path string, snap *domain.Snapshot) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, e := range snap.Events {
		start, err := e.ScheduledAt()
		if err != nil {
			continue
		}
		allDay := e.Time == "" || e.Time == domain.TimeAllDay || e.Time == domain.TimeTentative
		if allDay {
			// ScheduledAt resolves sentinels to end of day; anchor
			// the calendar entry at midnight instead.
			start, _ = time.ParseInLocation(domain.DateLayout, e.Date, time.UTC)
		}

		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s@ecocal", e.Date, e.ID))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, snap.LastUpdated.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, start)
		ev.Props.SetText(ical.PropSummary, e.Title)
		if e.Description != "" {
			ev.Props.SetText(ical.PropDescription, e.Description)
		}
		if e.SourceURL != "" {
			ev.Props.SetText(ical.PropURL, e.SourceURL)
		}
		ev.Props.SetText(ical.PropCategories, string(e.Category))
		if allDay {
			ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(24*time.Hour))
		} else {
			ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(eventDuration))
		}

		cal.Children = append(cal.Children, ev.Component)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}
