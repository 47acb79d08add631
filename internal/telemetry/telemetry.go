// Package telemetry records OpenTelemetry metrics and spans for workflow
// activation and task classification.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the meter and tracer name.
const InstrumentationName = "github.com/cameroncooke/XcodeBuildMCP-sub013"

// Telemetry holds the instruments. A nil *Telemetry records nothing.
type Telemetry struct {
	tracer trace.Tracer

	activations        metric.Int64Counter
	toolsRegistered    metric.Int64Counter
	toolsRemoved       metric.Int64Counter
	conflicts          metric.Int64Counter
	loadFailures       metric.Int64Counter
	activationDuration metric.Float64Histogram
	classifications    metric.Int64Counter
	classifyDuration   metric.Float64Histogram
}

// New creates the instruments from meter and tracer.
func New(meter metric.Meter, tracer trace.Tracer) (*Telemetry, error) {
	t := &Telemetry{tracer: tracer}
	var err error

	if t.activations, err = meter.Int64Counter("xcodebuildmcp.activation.calls",
		metric.WithDescription("Number of activation requests"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if t.toolsRegistered, err = meter.Int64Counter("xcodebuildmcp.activation.tools_registered",
		metric.WithDescription("Number of tools registered on the live server"),
		metric.WithUnit("{tool}"),
	); err != nil {
		return nil, err
	}
	if t.toolsRemoved, err = meter.Int64Counter("xcodebuildmcp.activation.tools_removed",
		metric.WithDescription("Number of tools removed from the live server"),
		metric.WithUnit("{tool}"),
	); err != nil {
		return nil, err
	}
	if t.conflicts, err = meter.Int64Counter("xcodebuildmcp.activation.conflicts",
		metric.WithDescription("Number of tool registration conflicts"),
		metric.WithUnit("{conflict}"),
	); err != nil {
		return nil, err
	}
	if t.loadFailures, err = meter.Int64Counter("xcodebuildmcp.activation.load_failures",
		metric.WithDescription("Number of workflows that failed to load or were unknown"),
		metric.WithUnit("{workflow}"),
	); err != nil {
		return nil, err
	}
	if t.activationDuration, err = meter.Float64Histogram("xcodebuildmcp.activation.duration",
		metric.WithDescription("Duration of activation requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if t.classifications, err = meter.Int64Counter("xcodebuildmcp.classifier.calls",
		metric.WithDescription("Number of task classifications by response kind"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if t.classifyDuration, err = meter.Float64Histogram("xcodebuildmcp.classifier.duration",
		metric.WithDescription("Duration of task classification in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return t, nil
}

// NewGlobal creates the instruments from the global otel providers.
func NewGlobal() (*Telemetry, error) {
	return New(otel.Meter(InstrumentationName), otel.Tracer(InstrumentationName))
}

// Noop returns a Telemetry backed by no-op providers.
func Noop() *Telemetry {
	t, _ := New(metricnoop.NewMeterProvider().Meter(InstrumentationName),
		tracenoop.NewTracerProvider().Tracer(InstrumentationName))
	return t
}

// Start opens a span.
func (t *Telemetry) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ActivationStats summarizes one activation call.
type ActivationStats struct {
	Mode       string
	Source     string
	Registered int
	Removed    int
	Conflicts  int
	Failed     int
	Duration   time.Duration
}

// RecordActivation records the counters and duration of one activation.
func (t *Telemetry) RecordActivation(ctx context.Context, s ActivationStats) {
	if t == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", s.Mode),
		attribute.String("source", s.Source),
	)
	t.activations.Add(ctx, 1, attrs)
	if s.Registered > 0 {
		t.toolsRegistered.Add(ctx, int64(s.Registered), attrs)
	}
	if s.Removed > 0 {
		t.toolsRemoved.Add(ctx, int64(s.Removed), attrs)
	}
	if s.Conflicts > 0 {
		t.conflicts.Add(ctx, int64(s.Conflicts), attrs)
	}
	if s.Failed > 0 {
		t.loadFailures.Add(ctx, int64(s.Failed), attrs)
	}
	t.activationDuration.Record(ctx, s.Duration.Seconds(), attrs)
}

// RecordClassification records one classifier call by response kind.
func (t *Telemetry) RecordClassification(ctx context.Context, kind string, d time.Duration) {
	if t == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	t.classifications.Add(ctx, 1, attrs)
	t.classifyDuration.Record(ctx, d.Seconds(), attrs)
}
