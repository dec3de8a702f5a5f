package providers

import (
	"context"
	"time"

	"ecocal/pkg/contracts/domain"
)

// Nominal UTC release times for Federal Reserve publications. The
// statement lands at 14:00 Eastern; the calendar carries fixed UTC
// clock times rather than tracking US daylight saving shifts.
const (
	fomcDecisionTime = "19:00"
	fomcPressTime    = "19:30"
	fomcMinutesTime  = "19:00"

	fomcSourceURL = "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm"

	// Minutes are published three weeks after the decision unless the
	// table overrides the date.
	fomcMinutesLagDays = 21
)

// FOMC generates Federal Reserve policy events from the hand-maintained
// meeting table: rate decision, press conference, quarterly economic
// projections and the minutes release.
type FOMC struct {
	calendar *MeetingCalendar
}

// NewFOMC creates the FOMC provider.
func NewFOMC(calendar *MeetingCalendar) *FOMC {
	return &FOMC{calendar: calendar}
}

// Name implements Provider.
func (p *FOMC) Name() string { return "fomc" }

// Events expands each meeting in the window into its release events.
func (p *FOMC) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	for _, m := range p.calendar.FOMC {
		day, err := time.ParseInLocation(domain.DateLayout, m.Date, time.UTC)
		if err != nil {
			// Dates are validated at calendar load.
			continue
		}

		if window.Contains(day) {
			out = append(out, domain.ReleaseEvent{
				Date:      m.Date,
				Time:      fomcDecisionTime,
				Title:     "FOMC Rate Decision",
				Impact:    domain.ImpactHigh,
				Category:  domain.CategoryCentralBank,
				Currency:  "USD",
				Country:   "US",
				SourceURL: fomcSourceURL,
			})

			if m.Projections {
				out = append(out, domain.ReleaseEvent{
					Date:      m.Date,
					Time:      fomcDecisionTime,
					Title:     "FOMC Economic Projections",
					Impact:    domain.ImpactMedium,
					Category:  domain.CategoryCentralBank,
					Currency:  "USD",
					Country:   "US",
					SourceURL: fomcSourceURL,
				})
			}

			if m.PressConference {
				out = append(out, domain.ReleaseEvent{
					Date:      m.Date,
					Time:      fomcPressTime,
					Title:     "FOMC Press Conference",
					Impact:    domain.ImpactHigh,
					Category:  domain.CategoryCentralBank,
					Currency:  "USD",
					Country:   "US",
					SourceURL: fomcSourceURL,
				})
			}
		}

		minutesDay := day.AddDate(0, 0, fomcMinutesLagDays)
		if m.Minutes != "" {
			if d, err := time.ParseInLocation(domain.DateLayout, m.Minutes, time.UTC); err == nil {
				minutesDay = d
			}
		}
		if window.Contains(minutesDay) {
			out = append(out, domain.ReleaseEvent{
				Date:      minutesDay.Format(domain.DateLayout),
				Time:      fomcMinutesTime,
				Title:     "FOMC Meeting Minutes",
				Impact:    domain.ImpactMedium,
				Category:  domain.CategoryCentralBank,
				Currency:  "USD",
				Country:   "US",
				SourceURL: fomcSourceURL,
			})
		}
	}

	return out, nil
}
