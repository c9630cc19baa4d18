package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "pitch-workers"

// Options configures the OpenTelemetry providers.
type Options struct {
	ServiceName    string
	ServiceVersion string
	JaegerEndpoint string
	SampleRatio    float64
	// Registerer receives the Prometheus exporter. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Observability owns the meter and tracer providers installed globally by New.
type Observability struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

// New installs a Prometheus-backed meter provider and, when a Jaeger
// endpoint is configured, a batching tracer provider.
func New(opts Options) (*Observability, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// Dotted instrument names are exported with underscores and unit
	// suffixes (jobs_processed_total), the form dashboards query.
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(reg),
		otelprom.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := serviceResource(opts.ServiceName, opts.ServiceVersion)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	o := &Observability{meterProvider: mp}

	if opts.JaegerEndpoint != "" {
		tp, err := newTracerProvider(opts.JaegerEndpoint, opts.SampleRatio, res)
		if err != nil {
			_ = mp.Shutdown(context.Background())
			return nil, err
		}
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
	}

	return o, nil
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	var firstErr error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var (
	instrumentsOnce sync.Once
	jobCounter      otelmetric.Int64Counter
	jobDuration     otelmetric.Float64Histogram
)

// instruments are created against the global provider, which forwards to
// whatever New installs later.
func instruments() {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		jobCounter, _ = meter.Int64Counter(
			"jobs.processed",
			otelmetric.WithDescription("Number of jobs processed"),
		)
		jobDuration, _ = meter.Float64Histogram(
			"jobs.duration",
			otelmetric.WithDescription("Job processing duration"),
			otelmetric.WithUnit("ms"),
		)
	})
}

// RecordJob counts one processed job and its duration.
func RecordJob(ctx context.Context, taskType, status string, d time.Duration) {
	instruments()
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	if jobCounter != nil {
		jobCounter.Add(ctx, 1, attrs)
	}
	if jobDuration != nil {
		jobDuration.Record(ctx, float64(d.Milliseconds()), attrs)
	}
}
