package providers

import (
	"context"
	"fmt"
	"log/slog"

	"ecocal/internal/fred"
	"ecocal/pkg/contracts/domain"
)

// trackedRelease pairs a FRED release ID with the calendar events each
// scheduled date expands to. The release-dates endpoint returns bare
// dates, so title, clock time, impact and category come from this
// table.
type trackedRelease struct {
	id     int
	name   string
	events []releaseTemplate
}

type releaseTemplate struct {
	title    string
	time     string
	impact   domain.Impact
	category domain.Category
}

// The big US statistical releases publish at 08:30 Eastern; the
// calendar carries the nominal 13:30 UTC clock time.
const fredReleaseTime = "13:30"

// trackedReleases is the set of FRED releases the provider schedules.
// IDs are FRED's own release identifiers. The Employment Situation
// expands to two headline events sharing one release date.
var trackedReleases = []trackedRelease{
	{
		id:   50,
		name: "Employment Situation",
		events: []releaseTemplate{
			{"Nonfarm Payrolls", fredReleaseTime, domain.ImpactHigh, domain.CategoryEmployment},
			{"Unemployment Rate", fredReleaseTime, domain.ImpactHigh, domain.CategoryEmployment},
		},
	},
	{
		id:   10,
		name: "Consumer Price Index",
		events: []releaseTemplate{
			{"Consumer Price Index", fredReleaseTime, domain.ImpactHigh, domain.CategoryInflation},
		},
	},
	{
		id:   46,
		name: "Producer Price Index",
		events: []releaseTemplate{
			{"Producer Price Index", fredReleaseTime, domain.ImpactMedium, domain.CategoryInflation},
		},
	},
	{
		id:   53,
		name: "Gross Domestic Product",
		events: []releaseTemplate{
			{"Gross Domestic Product", fredReleaseTime, domain.ImpactHigh, domain.CategoryGrowth},
		},
	},
	{
		id:   7,
		name: "Advance Retail Sales",
		events: []releaseTemplate{
			{"Retail Sales", fredReleaseTime, domain.ImpactMedium, domain.CategoryGrowth},
		},
	},
	{
		id:   54,
		name: "Personal Income and Outlays",
		events: []releaseTemplate{
			{"PCE Price Index", fredReleaseTime, domain.ImpactHigh, domain.CategoryInflation},
		},
	},
	{
		id:   180,
		name: "Unemployment Insurance Weekly Claims",
		events: []releaseTemplate{
			{"Initial Jobless Claims", fredReleaseTime, domain.ImpactMedium, domain.CategoryEmployment},
		},
	},
}

const fredSourceURL = "https://fred.stlouisfed.org/releases"

// FredSchedule turns the FRED release-dates endpoint into calendar
// events for the tracked US statistical releases.
type FredSchedule struct {
	client *fred.Client
	logger *slog.Logger
}

// NewFredSchedule creates the FRED schedule provider.
func NewFredSchedule(client *fred.Client, logger *slog.Logger) *FredSchedule {
	return &FredSchedule{client: client, logger: logger}
}

// Name implements Provider.
func (p *FredSchedule) Name() string { return "fred" }

// Events queries the release schedule once per tracked release. A
// failed release is logged and skipped so one upstream hiccup does not
// cost the whole schedule; the provider fails only when every query
// failed.
func (p *FredSchedule) Events(ctx context.Context, window Window) ([]domain.ReleaseEvent, error) {
	var (
		out      []domain.ReleaseEvent
		firstErr error
		failures int
	)

	for _, rel := range trackedReleases {
		dates, err := p.client.ReleaseDates(ctx, rel.id, window.Start, window.End)
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = fmt.Errorf("release %d (%s): %w", rel.id, rel.name, err)
			}
			p.logger.WarnContext(ctx, "fred_release_schedule_failed",
				slog.Int("release_id", rel.id),
				slog.String("release", rel.name),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, d := range dates {
			for _, tmpl := range rel.events {
				out = append(out, domain.ReleaseEvent{
					Date:      d.Format(domain.DateLayout),
					Time:      tmpl.time,
					Title:     tmpl.title,
					Impact:    tmpl.impact,
					Category:  tmpl.category,
					Currency:  "USD",
					Country:   "US",
					SourceURL: fmt.Sprintf("%s/%d", fredSourceURL, rel.id),
				})
			}
		}
	}

	if failures == len(trackedReleases) && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
