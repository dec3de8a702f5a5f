package providers

import (
	"context"
	"time"

	"ecocal/internal/schedule"
	"ecocal/pkg/contracts/domain"
)

// The weekly US energy inventory cycle: the API industry bulletin lands
// Tuesday evening, the official EIA petroleum report Wednesday
// afternoon and the natural gas storage report Thursday afternoon.
const (
	eiaCrudeTime  = "14:30"
	eiaNatGasTime = "14:30"
	apiCrudeTime  = "20:30"

	eiaPetroleumURL = "https://www.eia.gov/petroleum/supply/weekly/"
	eiaNatGasURL    = "https://ir.eia.gov/ngs/ngs.html"
	apiBulletinURL  = "https://www.api.org/products-and-services/statistics"
)

// Energy generates the weekly petroleum and natural gas inventory
// events for every week the window touches.
type Energy struct{}

// NewEnergy creates the energy provider.
func NewEnergy() *Energy { return &Energy{} }

// Name implements Provider.
func (p *Energy) Name() string { return "energy" }

// Events implements Provider.
func (p *Energy) Events(_ context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var out []domain.ReleaseEvent

	for _, wed := range schedule.EachWeekday(window.Start, window.End, time.Wednesday) {
		// The API bulletin previews the EIA report one evening earlier.
		tue := wed.AddDate(0, 0, -1)
		if window.Contains(tue) {
			out = append(out, domain.ReleaseEvent{
				Date:      tue.Format(domain.DateLayout),
				Time:      apiCrudeTime,
				Title:     "API Weekly Statistical Bulletin",
				Impact:    domain.ImpactLow,
				Category:  domain.CategoryEnergy,
				Currency:  "USD",
				Country:   "US",
				SourceURL: apiBulletinURL,
			})
		}

		out = append(out, domain.ReleaseEvent{
			Date:      wed.Format(domain.DateLayout),
			Time:      eiaCrudeTime,
			Title:     "EIA Crude Oil Inventories",
			Impact:    domain.ImpactMedium,
			Category:  domain.CategoryEnergy,
			Currency:  "USD",
			Country:   "US",
			SourceURL: eiaPetroleumURL,
		})
	}

	for _, thu := range schedule.EachWeekday(window.Start, window.End, time.Thursday) {
		out = append(out, domain.ReleaseEvent{
			Date:      thu.Format(domain.DateLayout),
			Time:      eiaNatGasTime,
			Title:     "EIA Natural Gas Storage",
			Impact:    domain.ImpactLow,
			Category:  domain.CategoryEnergy,
			Currency:  "USD",
			Country:   "US",
			SourceURL: eiaNatGasURL,
		})
	}

	return out, nil
}
