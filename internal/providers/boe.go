package providers

import (
	"context"
	"time"

	"ecocal/pkg/contracts/domain"
)

const (
	boeDecisionTime = "12:00"
	boeReportTime   = "12:30"

	boeSourceURL = "https://www.bankofengland.co.uk/monetary-policy/upcoming-mpc-dates"
)

// BOE generates Bank of England policy events from the hand-maintained
// Monetary Policy Committee meeting table.
type BOE struct {
	calendar *MeetingCalendar
}

// NewBOE creates the BOE provider.
func NewBOE(calendar *MeetingCalendar) *BOE {
	return &BOE{calendar: calendar}
}

// Name implements Provider.
func (p *BOE) Name() string { return "boe" }

// Events returns the rate decision for each MPC meeting inside the
// window, plus the Monetary Policy Report on the quarterly meetings
// that publish one.
func (p *BOE) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	for _, m := range p.calendar.BOE {
		day, err := time.ParseInLocation(domain.DateLayout, m.Date, time.UTC)
		if err != nil {
			continue
		}
		if !window.Contains(day) {
			continue
		}

		out = append(out, domain.ReleaseEvent{
			Date:      m.Date,
			Time:      boeDecisionTime,
			Title:     "BOE Rate Decision",
			Impact:    domain.ImpactHigh,
			Category:  domain.CategoryCentralBank,
			Currency:  "GBP",
			Country:   "GB",
			SourceURL: boeSourceURL,
		})

		if m.MPR {
			out = append(out, domain.ReleaseEvent{
				Date:      m.Date,
				Time:      boeReportTime,
				Title:     "BOE Monetary Policy Report",
				Impact:    domain.ImpactMedium,
				Category:  domain.CategoryCentralBank,
				Currency:  "GBP",
				Country:   "GB",
				SourceURL: boeSourceURL,
			})
		}
	}

	return out, nil
}
