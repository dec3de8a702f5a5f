package providers

import (
	"context"
	"time"

	"ecocal/pkg/contracts/domain"
)

const (
	ecbDecisionTime = "13:15"
	ecbPressTime    = "13:45"

	ecbSourceURL = "https://www.ecb.europa.eu/press/calendars/mgcgc/html/index.en.html"
)

// ECB generates European Central Bank policy events from the
// hand-maintained Governing Council meeting table.
type ECB struct {
	calendar *MeetingCalendar
}

// NewECB creates the ECB provider.
func NewECB(calendar *MeetingCalendar) *ECB {
	return &ECB{calendar: calendar}
}

// Name implements Provider.
func (p *ECB) Name() string { return "ecb" }

// Events returns the rate decision and press conference for each
// monetary policy meeting inside the window.
func (p *ECB) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	for _, m := range p.calendar.ECB {
		day, err := time.ParseInLocation(domain.DateLayout, m.Date, time.UTC)
		if err != nil {
			continue
		}
		if !window.Contains(day) {
			continue
		}

		out = append(out,
			domain.ReleaseEvent{
				Date:      m.Date,
				Time:      ecbDecisionTime,
				Title:     "ECB Rate Decision",
				Impact:    domain.ImpactHigh,
				Category:  domain.CategoryCentralBank,
				Currency:  "EUR",
				Country:   "EU",
				SourceURL: ecbSourceURL,
			},
			domain.ReleaseEvent{
				Date:      m.Date,
				Time:      ecbPressTime,
				Title:     "ECB Press Conference",
				Impact:    domain.ImpactHigh,
				Category:  domain.CategoryCentralBank,
				Currency:  "EUR",
				Country:   "EU",
				SourceURL: ecbSourceURL,
			},
		)
	}

	return out, nil
}
