package providers

import (
	"context"
	"time"

	"ecocal/internal/schedule"
	"ecocal/pkg/contracts/domain"
)

const (
	lprTime      = "01:15"
	lprSourceURL = "https://www.pbc.gov.cn/en/3688229/index.html"
)

// LPR generates the monthly China Loan Prime Rate fixing, announced on
// the 20th of each month and rolled forward to Monday when the 20th
// falls on a weekend.
type LPR struct{}

// NewLPR creates the LPR provider.
func NewLPR() *LPR { return &LPR{} }

// Name implements Provider.
func (p *LPR) Name() string { return "lpr" }

// Events implements Provider.
func (p *LPR) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	// Walk month by month from the window start. The fixing can roll
	// past month end only in theory (the 20th never rolls that far), so
	// a per-month pass is sufficient.
	for d := time.Date(window.Start.Year(), window.Start.Month(), 1, 0, 0, 0, 0, time.UTC); !d.After(window.End); d = d.AddDate(0, 1, 0) {
		fixing := schedule.RollForwardWeekend(time.Date(d.Year(), d.Month(), 20, 0, 0, 0, 0, time.UTC))
		if !window.Contains(fixing) {
			continue
		}
		out = append(out, domain.ReleaseEvent{
			Date:      fixing.Format(domain.DateLayout),
			Time:      lprTime,
			Title:     "China Loan Prime Rate",
			Impact:    domain.ImpactMedium,
			Category:  domain.CategoryCentralBank,
			Currency:  "CNY",
			Country:   "CN",
			SourceURL: lprSourceURL,
		})
	}

	return out, nil
}
