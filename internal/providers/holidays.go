package providers

import (
	"context"
	"time"

	"ecocal/internal/schedule"
	"ecocal/pkg/contracts/domain"
)

const holidaysSourceURL = "https://www.nyse.com/markets/hours-calendars"

// USHolidays generates the US market holiday calendar algorithmically,
// one full set per calendar year the window touches.
type USHolidays struct{}

// NewUSHolidays creates the holiday provider.
func NewUSHolidays() *USHolidays { return &USHolidays{} }

// Name implements Provider.
func (p *USHolidays) Name() string { return "holidays" }

// Events implements Provider.
func (p *USHolidays) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	for _, year := range window.Years() {
		for _, h := range holidaysForYear(year) {
			if !window.Contains(h.day) {
				continue
			}
			out = append(out, domain.ReleaseEvent{
				Date:      h.day.Format(domain.DateLayout),
				Time:      domain.TimeAllDay,
				Title:     h.title,
				Impact:    domain.ImpactHoliday,
				Category:  domain.CategoryHoliday,
				Currency:  "USD",
				Country:   "US",
				SourceURL: holidaysSourceURL,
			})
		}
	}

	return out, nil
}

type holiday struct {
	title string
	day   time.Time
}

// holidaysForYear computes the ten observed market holidays. Fixed-date
// holidays shift off weekends (Sat observes Fri, Sun observes Mon);
// floating holidays land on a weekday by construction.
func holidaysForYear(year int) []holiday {
	fixed := func(month time.Month, day int) time.Time {
		return schedule.Observed(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	}

	return []holiday{
		{"New Year's Day", fixed(time.January, 1)},
		{"Martin Luther King Jr. Day", schedule.NthWeekday(year, time.January, time.Monday, 3)},
		{"Presidents' Day", schedule.NthWeekday(year, time.February, time.Monday, 3)},
		{"Good Friday", schedule.GoodFriday(year)},
		{"Memorial Day", schedule.LastWeekday(year, time.May, time.Monday)},
		{"Juneteenth", fixed(time.June, 19)},
		{"Independence Day", fixed(time.July, 4)},
		{"Labor Day", schedule.NthWeekday(year, time.September, time.Monday, 1)},
		{"Thanksgiving Day", schedule.NthWeekday(year, time.November, time.Thursday, 4)},
		{"Christmas Day", fixed(time.December, 25)},
	}
}
