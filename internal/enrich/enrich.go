// Package enrich attaches historical observation data to calendar
// events whose titles map to a known time series. A full enrichment
// pass runs after collection; a quick refresh patches the data fields
// of an already-published snapshot without rebuilding the event list.
package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ecocal/internal/indicators"
	"ecocal/internal/infrastructure"
	"ecocal/pkg/contracts/domain"
)

// observationCount is how many observations are requested per series:
// two are required for a latest/prior pair, a third lets period-over-
// period meanings derive the prior period's change as well.
const observationCount = 3

// SeriesFetcher is the upstream observation source. Satisfied by
// *fred.Client.
type SeriesFetcher interface {
	SeriesObservations(ctx context.Context, seriesID string, limit int) ([]domain.Observation, error)
}

// Service enriches calendar events with the latest observations of
// their mapped series. Each series is fetched exactly once per run
// regardless of how many events share it.
type Service struct {
	fetcher     SeriesFetcher
	logger      *slog.Logger
	metrics     *infrastructure.CalendarMetrics
	concurrency int

	// now is injectable so tests can pin the actual/previous cutoff.
	now func() time.Time
}

// NewService creates an enrichment service. concurrency bounds the
// series fetch fan-out.
func NewService(fetcher SeriesFetcher, concurrency int, logger *slog.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// WithMetrics enables series fetch and cache instrumentation.
func (s *Service) WithMetrics(metrics *infrastructure.CalendarMetrics) *Service {
	s.metrics = metrics
	return s
}

// seriesResult is one fetched series, or the error that prevented it.
type seriesResult struct {
	data domain.SeriesData
	err  error
}

// Enrich attaches latest/prior observation values to every event with
// a series mapping and resolves actual/previous for events whose
// scheduled instant has passed. Events without a mapping, and events
// whose series fetch failed, pass through unchanged. The input slice
// is modified in place and returned.
func (s *Service) Enrich(ctx context.Context, events []domain.ReleaseEvent) []domain.ReleaseEvent {
	series := s.fetchAll(ctx, uniqueSeries(events))
	now := s.now().UTC()
	used := make(map[string]bool, len(series))

	for i := range events {
		mapping, ok := indicators.Resolve(events[i].Title)
		if !ok {
			continue
		}
		res, ok := series[mapping.SeriesID]
		if !ok || res.err != nil {
			continue
		}
		if used[mapping.SeriesID] {
			infrastructure.RecordSeriesFetch(ctx, s.metrics, mapping.SeriesID, true, nil)
		}
		used[mapping.SeriesID] = true
		s.apply(&events[i], mapping, res.data, now)
	}

	return events
}

// Refresh is the quick-mode pass: it re-fetches every series mapped by
// the snapshot's events and overwrites only the data-related fields,
// leaving schedule and metadata fields untouched. The snapshot is
// stamped with the refresh time.
func (s *Service) Refresh(ctx context.Context, snap *domain.Snapshot) {
	series := s.fetchAll(ctx, uniqueSeries(snap.Events))
	now := s.now().UTC()

	used := make(map[string]bool, len(series))
	for i := range snap.Events {
		mapping, ok := indicators.Resolve(snap.Events[i].Title)
		if !ok {
			continue
		}
		res, ok := series[mapping.SeriesID]
		if !ok || res.err != nil {
			continue
		}
		if used[mapping.SeriesID] {
			infrastructure.RecordSeriesFetch(ctx, s.metrics, mapping.SeriesID, true, nil)
		}
		used[mapping.SeriesID] = true
		s.apply(&snap.Events[i], mapping, res.data, now)
	}

	snap.DataIncluded = true
	snap.DataRefreshedAt = &now
}

// apply writes the derived data fields onto one event.
func (s *Service) apply(e *domain.ReleaseEvent, mapping domain.SeriesMapping, data domain.SeriesData, now time.Time) {
	latest, prior := deriveValues(data.Observations, mapping)
	if latest == "" {
		return
	}

	e.SeriesID = mapping.SeriesID
	e.LatestValue = latest
	e.PriorValue = prior
	if obs, ok := data.Latest(); ok {
		e.LatestDate = obs.Date
	}
	if obs, ok := data.Prior(); ok {
		e.PriorDate = obs.Date
	}

	// The scheduled instant decides attribution: a release that has
	// happened gets the latest observation as its actual figure; one
	// still pending shows the latest observation as the previous
	// reading the market compares against.
	if e.HasPassed(now) {
		e.Actual = latest
		e.Previous = prior
	} else {
		e.Actual = ""
		e.Previous = latest
	}
}

// uniqueSeries collects the distinct series IDs mapped by the events,
// in first-appearance order.
func uniqueSeries(events []domain.ReleaseEvent) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range events {
		mapping, ok := indicators.Resolve(e.Title)
		if !ok || seen[mapping.SeriesID] {
			continue
		}
		seen[mapping.SeriesID] = true
		ids = append(ids, mapping.SeriesID)
	}
	return ids
}

// fetchAll resolves every series concurrently under the fan-out bound.
// Failures are recorded per series and never abort the other fetches.
func (s *Service) fetchAll(ctx context.Context, ids []string) map[string]seriesResult {
	results := make(map[string]seriesResult, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			obs, err := s.fetcher.SeriesObservations(gctx, id, observationCount)
			if err != nil {
				s.logger.WarnContext(gctx, "series_fetch_failed",
					slog.String("series_id", id),
					slog.String("error", err.Error()))
			}
			infrastructure.RecordSeriesFetch(gctx, s.metrics, id, false, err)
			mu.Lock()
			results[id] = seriesResult{
				data: domain.SeriesData{SeriesID: id, Observations: obs},
				err:  err,
			}
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; failures are isolated per series.
	_ = g.Wait()

	s.logger.InfoContext(ctx, "series_fetch_complete",
		slog.Int("series_count", len(ids)))
	return results
}
