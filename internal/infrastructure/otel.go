package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "economic-calendar"
	ServiceVersion = "3.0.0"
	MeterName      = "ecocal"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  false,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes OpenTelemetry tracing and metrics
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "initializing opentelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "tracing_initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.Handler()

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

		otel.SetMeterProvider(mp)

	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "metrics_initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// CalendarMetrics holds all application-specific metrics
type CalendarMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Collection run metrics
	RunsTotal     metric.Int64Counter
	RunDuration   metric.Float64Histogram
	RunEventCount metric.Int64Histogram

	// Provider metrics
	ProviderEventsTotal   metric.Int64Counter
	ProviderFailuresTotal metric.Int64Counter
	ProviderDuration      metric.Float64Histogram

	// Enrichment metrics
	SeriesFetchesTotal metric.Int64Counter
	SeriesCacheHits    metric.Int64Counter
	SeriesCacheMisses  metric.Int64Counter

	// Publishing metrics
	SnapshotWritesTotal   metric.Int64Counter
	SnapshotWriteFailures metric.Int64Counter

	// System metrics
	SystemErrors metric.Int64Counter
}

// CreateCalendarMetrics creates application-specific metrics
func CreateCalendarMetrics(meter metric.Meter) (*CalendarMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	runsTotal, err := meter.Int64Counter(
		"calendar_runs_total",
		metric.WithDescription("Total number of calendar collection runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"calendar_run_duration_seconds",
		metric.WithDescription("Calendar collection run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runEventCount, err := meter.Int64Histogram(
		"calendar_run_events",
		metric.WithDescription("Events published per collection run"),
	)
	if err != nil {
		return nil, err
	}

	providerEventsTotal, err := meter.Int64Counter(
		"calendar_provider_events_total",
		metric.WithDescription("Total number of events fetched per provider"),
	)
	if err != nil {
		return nil, err
	}

	providerFailuresTotal, err := meter.Int64Counter(
		"calendar_provider_failures_total",
		metric.WithDescription("Total number of provider fetch failures"),
	)
	if err != nil {
		return nil, err
	}

	providerDuration, err := meter.Float64Histogram(
		"calendar_provider_duration_seconds",
		metric.WithDescription("Provider fetch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	seriesFetchesTotal, err := meter.Int64Counter(
		"calendar_series_fetches_total",
		metric.WithDescription("Total number of series observation fetches"),
	)
	if err != nil {
		return nil, err
	}

	seriesCacheHits, err := meter.Int64Counter(
		"calendar_series_cache_hits_total",
		metric.WithDescription("Total number of series cache hits"),
	)
	if err != nil {
		return nil, err
	}

	seriesCacheMisses, err := meter.Int64Counter(
		"calendar_series_cache_misses_total",
		metric.WithDescription("Total number of series cache misses"),
	)
	if err != nil {
		return nil, err
	}

	snapshotWritesTotal, err := meter.Int64Counter(
		"calendar_snapshot_writes_total",
		metric.WithDescription("Total number of snapshot files written"),
	)
	if err != nil {
		return nil, err
	}

	snapshotWriteFailures, err := meter.Int64Counter(
		"calendar_snapshot_write_failures_total",
		metric.WithDescription("Total number of snapshot write failures"),
	)
	if err != nil {
		return nil, err
	}

	systemErrors, err := meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	)
	if err != nil {
		return nil, err
	}

	return &CalendarMetrics{
		HTTPRequestsTotal:     httpRequestsTotal,
		HTTPRequestDuration:   httpRequestDuration,
		HTTPActiveRequests:    httpActiveRequests,
		RunsTotal:             runsTotal,
		RunDuration:           runDuration,
		RunEventCount:         runEventCount,
		ProviderEventsTotal:   providerEventsTotal,
		ProviderFailuresTotal: providerFailuresTotal,
		ProviderDuration:      providerDuration,
		SeriesFetchesTotal:    seriesFetchesTotal,
		SeriesCacheHits:       seriesCacheHits,
		SeriesCacheMisses:     seriesCacheMisses,
		SnapshotWritesTotal:   snapshotWritesTotal,
		SnapshotWriteFailures: snapshotWriteFailures,
		SystemErrors:          systemErrors,
	}, nil
}

// RecordRunMetrics records metrics for a completed collection run
func RecordRunMetrics(ctx context.Context, metrics *CalendarMetrics, mode string, duration time.Duration, eventCount int, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := []attribute.KeyValue{
		attribute.String("mode", mode),
		attribute.String("status", status),
	}

	metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err == nil {
		metrics.RunEventCount.Record(ctx, int64(eventCount), metric.WithAttributes(attribute.String("mode", mode)))
	}
}

// RecordProviderMetrics records metrics for one provider fetch within a run
func RecordProviderMetrics(ctx context.Context, metrics *CalendarMetrics, provider string, duration time.Duration, eventCount int, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
	}

	if err != nil {
		metrics.ProviderFailuresTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		metrics.ProviderEventsTotal.Add(ctx, int64(eventCount), metric.WithAttributes(attrs...))
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ProviderDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(append(attrs, attribute.String("status", status))...))
}

// RecordSeriesFetch records one series resolution during enrichment.
// cached marks a reuse of an observation set already fetched this run.
func RecordSeriesFetch(ctx context.Context, metrics *CalendarMetrics, seriesID string, cached bool, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("series_id", seriesID),
	}

	if cached {
		metrics.SeriesCacheHits.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}
	metrics.SeriesCacheMisses.Add(ctx, 1, metric.WithAttributes(attrs...))

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.SeriesFetchesTotal.Add(ctx, 1,
		metric.WithAttributes(append(attrs, attribute.String("status", status))...))
}

// RecordSnapshotWrite records a snapshot publish attempt per destination
func RecordSnapshotWrite(ctx context.Context, metrics *CalendarMetrics, destination string, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("destination", destination),
	}

	if err != nil {
		metrics.SnapshotWriteFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}
	metrics.SnapshotWritesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}

	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
