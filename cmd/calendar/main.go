// Command calendar runs the economic-calendar engine: it collects
// release events from every configured provider, normalizes and
// enriches them and publishes the consolidated snapshot.
//
// Modes (mutually exclusive):
//
//	(default)        full rebuild with enrichment
//	-skip-data       full rebuild without enrichment
//	-quick           enrichment-only refresh of the existing snapshot
//	-provider NAME   rebuild from a single provider, for debugging
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"ecocal/internal/config"
	"ecocal/internal/enrich"
	"ecocal/internal/exporter"
	"ecocal/internal/fred"
	"ecocal/internal/infrastructure"
	"ecocal/internal/pipeline"
	"ecocal/internal/providers"
	"ecocal/internal/schedule"
	"ecocal/pkg/contracts/domain"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type options struct {
	quick    bool
	skipData bool
	provider string
	from     string
	to       string
	outDir   string
	meetings string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	opts := &options{}
	fs.BoolVar(&opts.quick, "quick", false, "refresh data fields of the existing snapshot without regenerating the schedule")
	fs.BoolVar(&opts.skipData, "skip-data", false, "rebuild the schedule without fetching observation data")
	fs.StringVar(&opts.provider, "provider", "", "run a single provider by name")
	fs.StringVar(&opts.from, "from", "", "window start (YYYY-MM-DD), overrides the configured months-back")
	fs.StringVar(&opts.to, "to", "", "window end (YYYY-MM-DD), overrides the configured months-ahead")
	fs.StringVar(&opts.outDir, "out", "", "extra output destination directory")
	fs.StringVar(&opts.meetings, "meetings", "", "path to a meeting calendar YAML overriding the embedded tables")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.quick && (opts.skipData || opts.provider != "") {
		return nil, errors.New("-quick cannot be combined with -skip-data or -provider")
	}
	return opts, nil
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if opts.outDir != "" {
		cfg.Outputs.Destinations = append(cfg.Outputs.Destinations, opts.outDir)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("otel_init_failed", slog.String("error", err.Error()))
		return 1
	}
	defer otelProviders.Shutdown(context.Background())

	metrics, err := infrastructure.CreateCalendarMetrics(otelProviders.Meter)
	if err != nil {
		logger.Error("metrics_init_failed", slog.String("error", err.Error()))
		return 1
	}

	fredClient := fred.NewClient(cfg.Fred, infrastructure.WithComponent(logger, "fred"))
	enricher := enrich.NewService(fredClient, cfg.Calendar.Concurrency,
		infrastructure.WithComponent(logger, "enrich")).WithMetrics(metrics)
	publisher := exporter.NewPublisher(cfg.Outputs,
		infrastructure.WithComponent(logger, "exporter")).WithMetrics(metrics)

	if opts.quick {
		return runQuickRefresh(ctx, enricher, publisher, logger)
	}
	return runFull(ctx, cfg, opts, fredClient, enricher, publisher, logger, metrics)
}

// runQuickRefresh patches the published snapshot's data fields in
// place. A missing snapshot is fatal: quick mode assumes a full run
// has happened at least once.
func runQuickRefresh(ctx context.Context, enricher *enrich.Service, publisher *exporter.Publisher, logger *slog.Logger) int {
	snap, err := publisher.Load(ctx)
	if err != nil {
		if errors.Is(err, exporter.ErrNoSnapshot) {
			logger.ErrorContext(ctx, "quick_refresh_requires_snapshot")
		} else {
			logger.ErrorContext(ctx, "snapshot_load_failed", slog.String("error", err.Error()))
		}
		return 1
	}

	enricher.Refresh(ctx, snap)

	if err := publisher.Publish(ctx, snap); err != nil {
		logger.ErrorContext(ctx, "publish_failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func runFull(ctx context.Context, cfg *config.Config, opts *options, fredClient *fred.Client, enricher *enrich.Service, publisher *exporter.Publisher, logger *slog.Logger, metrics *infrastructure.CalendarMetrics) int {
	window, err := resolveWindow(cfg, opts)
	if err != nil {
		logger.ErrorContext(ctx, "invalid_window", slog.String("error", err.Error()))
		return 1
	}

	registry, err := buildRegistry(cfg, opts.meetings, fredClient, logger)
	if err != nil {
		logger.ErrorContext(ctx, "registry_build_failed", slog.String("error", err.Error()))
		return 1
	}

	runner := pipeline.NewRunner(registry, enricher, cfg.Calendar.Concurrency,
		infrastructure.WithComponent(logger, "pipeline"), metrics)
	snap, err := runner.Run(ctx, pipeline.Options{
		Window:         window,
		Provider:       opts.provider,
		SkipEnrichment: opts.skipData,
	})
	if err != nil {
		logger.ErrorContext(ctx, "run_failed", slog.String("error", err.Error()))
		return 1
	}

	if err := publisher.Publish(ctx, snap); err != nil {
		logger.ErrorContext(ctx, "publish_failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// buildRegistry registers every provider in priority order: the
// hand-maintained tables first, algorithmic generators next, remote
// lookups last so local sources win duplicate events.
func buildRegistry(cfg *config.Config, meetingsPath string, fredClient *fred.Client, logger *slog.Logger) (*providers.Registry, error) {
	meetings, err := providers.LoadMeetingCalendar(meetingsPath)
	if err != nil {
		return nil, err
	}

	registry := providers.NewRegistry()
	all := []providers.Provider{
		providers.NewFOMC(meetings),
		providers.NewECB(meetings),
		providers.NewBOE(meetings),
		providers.NewUSHolidays(),
		providers.NewEnergy(),
		providers.NewLPR(),
	}
	if fredClient.HasKey() {
		all = append(all, providers.NewFredSchedule(fredClient, logger))
	} else {
		logger.Warn("fred_provider_disabled", slog.String("reason", "no api key configured"))
	}
	if cfg.API.Key != "" {
		all = append(all, providers.NewCalendarAPI(cfg.API))
	}

	selected, err := filterProviders(all, cfg.Calendar.Providers)
	if err != nil {
		return nil, err
	}
	for _, p := range selected {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// filterProviders restricts the registry to the configured provider
// names, preserving priority order. Naming a provider that is not
// available is a configuration error, not a silent no-op.
func filterProviders(all []providers.Provider, names []string) ([]providers.Provider, error) {
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	selected := make([]providers.Provider, 0, len(names))
	for _, p := range all {
		if wanted[p.Name()] {
			selected = append(selected, p)
			delete(wanted, p.Name())
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for n := range wanted {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("configured providers not available: %s", strings.Join(missing, ", "))
	}
	return selected, nil
}

// resolveWindow builds the collection window from the config defaults
// and any explicit flag overrides.
func resolveWindow(cfg *config.Config, opts *options) (providers.Window, error) {
	start, end := schedule.Window(time.Now(), cfg.Calendar.MonthsBack, cfg.Calendar.MonthsAhead)

	if opts.from != "" {
		d, err := time.ParseInLocation(domain.DateLayout, opts.from, time.UTC)
		if err != nil {
			return providers.Window{}, fmt.Errorf("parse -from: %w", err)
		}
		start = d
	}
	if opts.to != "" {
		d, err := time.ParseInLocation(domain.DateLayout, opts.to, time.UTC)
		if err != nil {
			return providers.Window{}, fmt.Errorf("parse -to: %w", err)
		}
		end = d
	}
	if end.Before(start) {
		return providers.Window{}, fmt.Errorf("window end %s before start %s", end.Format(domain.DateLayout), start.Format(domain.DateLayout))
	}

	return providers.Window{Start: start, End: end}, nil
}
