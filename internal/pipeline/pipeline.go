// Package pipeline orchestrates a collection run: it fans provider
// generators out under a concurrency bound, isolates their failures,
// normalizes and deduplicates the combined output and hands the result
// to enrichment. Provider registration order is the priority order for
// duplicate events.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ecocal/internal/infrastructure"
	"ecocal/internal/providers"
	"ecocal/pkg/contracts/domain"
)

// Enricher attaches observation data to events. Satisfied by
// *enrich.Service.
type Enricher interface {
	Enrich(ctx context.Context, events []domain.ReleaseEvent) []domain.ReleaseEvent
}

// Options selects what a run covers.
type Options struct {
	Window providers.Window

	// Provider restricts the run to one named provider. Empty runs all.
	Provider string

	// SkipEnrichment produces a schedule-only snapshot.
	SkipEnrichment bool
}

// Runner executes collection runs against a provider registry.
type Runner struct {
	registry    *providers.Registry
	enricher    Enricher
	logger      *slog.Logger
	metrics     *infrastructure.CalendarMetrics
	concurrency int
}

// NewRunner creates a runner. metrics may be nil when telemetry is not
// initialized (tests, one-off CLI runs).
func NewRunner(registry *providers.Registry, enricher Enricher, concurrency int, logger *slog.Logger, metrics *infrastructure.CalendarMetrics) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry:    registry,
		enricher:    enricher,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Run executes one collection run and returns the snapshot to publish.
// Individual provider failures are logged and isolated; Run itself
// fails only when the options are unusable (unknown provider name).
func (r *Runner) Run(ctx context.Context, opts Options) (*domain.Snapshot, error) {
	started := time.Now()

	selected, err := r.selectProviders(opts.Provider)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "collection_run_started",
		slog.String("window_start", opts.Window.Start.Format(domain.DateLayout)),
		slog.String("window_end", opts.Window.End.Format(domain.DateLayout)),
		slog.Int("provider_count", len(selected)),
		slog.Bool("skip_enrichment", opts.SkipEnrichment))

	// Results are collected per registration slot so the concatenation
	// order (and with it dedup priority) is independent of completion
	// order.
	results := make([][]domain.ReleaseEvent, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, p := range selected {
		g.Go(func() error {
			results[i] = r.collect(gctx, p, opts.Window)
			return nil
		})
	}
	// Provider failures never surface as errgroup errors.
	_ = g.Wait()

	var merged []domain.ReleaseEvent
	var sources []string
	for i, events := range results {
		if len(events) == 0 {
			continue
		}
		sources = append(sources, selected[i].Name())
		merged = append(merged, events...)
	}

	events := Normalize(merged)

	if !opts.SkipEnrichment && r.enricher != nil {
		events = r.enricher.Enrich(ctx, events)
	}

	snap := &domain.Snapshot{
		LastUpdated:  time.Now().UTC(),
		Version:      domain.SnapshotVersion,
		Sources:      sources,
		DataIncluded: !opts.SkipEnrichment,
		Events:       events,
	}

	mode := "full"
	if opts.SkipEnrichment {
		mode = "schedule_only"
	}
	infrastructure.RecordRunMetrics(ctx, r.metrics, mode, time.Since(started), len(events), nil)
	infrastructure.AddSpanEvent(ctx, "collection_run_complete", map[string]interface{}{
		"event_count":  len(events),
		"source_count": len(sources),
	})
	r.logger.InfoContext(ctx, "collection_run_complete",
		slog.Int("event_count", len(events)),
		slog.Int("source_count", len(sources)),
		slog.Duration("elapsed", time.Since(started)))

	return snap, nil
}

// selectProviders resolves the provider set for a run.
func (r *Runner) selectProviders(name string) ([]providers.Provider, error) {
	if name == "" {
		return r.registry.List(), nil
	}
	p, err := r.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("select provider: %w", err)
	}
	return []providers.Provider{p}, nil
}

// collect runs one provider, converting panics and errors into an
// empty contribution so the rest of the batch proceeds.
func (r *Runner) collect(ctx context.Context, p providers.Provider, window providers.Window) (events []domain.ReleaseEvent) {
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.recordFailure(ctx, p.Name(), started, fmt.Errorf("panic: %v", rec))
			events = nil
		}
	}()

	events, err := p.Events(ctx, window)
	if err != nil {
		r.recordFailure(ctx, p.Name(), started, err)
		return nil
	}

	// Tag provenance where the provider left it blank.
	for i := range events {
		if events[i].Source == "" {
			events[i].Source = p.Name()
		}
	}

	infrastructure.RecordProviderMetrics(ctx, r.metrics, p.Name(), time.Since(started), len(events), nil)
	r.logger.InfoContext(ctx, "provider_complete",
		slog.String("provider", p.Name()),
		slog.Int("event_count", len(events)))

	return events
}

func (r *Runner) recordFailure(ctx context.Context, provider string, started time.Time, err error) {
	infrastructure.RecordProviderMetrics(ctx, r.metrics, provider, time.Since(started), 0, err)
	infrastructure.RecordError(ctx, err)
	infrastructure.WithError(r.logger, err).ErrorContext(ctx, "provider_failed",
		slog.String("provider", provider))
}
