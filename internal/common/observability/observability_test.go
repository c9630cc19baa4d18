package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_WithoutJaeger(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := New(Options{ServiceName: "pitch-workers-test", Registerer: reg})
	require.NoError(t, err)
	assert.Nil(t, o.tracerProvider)

	RecordJob(context.Background(), "score-pitch", "completed", 12*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "jobs_processed_total")
	assert.Contains(t, names, "jobs_duration_milliseconds")
	for _, n := range names {
		assert.NotContains(t, n, ".", "metric %q keeps an OTLP dotted name", n)
	}

	require.NoError(t, o.Shutdown(context.Background()))
}

func TestStartSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "score-pitch", attribute.Int64("jobKey", 42))
	EndSpan(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "score-pitch", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}
