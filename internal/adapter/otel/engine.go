package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

const meterName = tracerName

// TracingEngine wraps a domain.TransitionEngine with a span per event and
// counters for applied, rejected and divide-by-zero transitions.
type TracingEngine struct {
	next     domain.TransitionEngine
	tracer   trace.Tracer
	applied  metric.Int64Counter
	rejected metric.Int64Counter
	alerts   metric.Int64Counter
}

// Compile-time check: TracingEngine implements domain.TransitionEngine.
var _ domain.TransitionEngine = (*TracingEngine)(nil)

// NewTracingEngine creates an instrumented decorator around the given engine.
// Instruments come from the global MeterProvider.
func NewTracingEngine(next domain.TransitionEngine) (*TracingEngine, error) {
	meter := otel.Meter(meterName)

	applied, err := meter.Int64Counter("calculator.transitions",
		metric.WithDescription("Events applied to calculator sessions."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}
	rejected, err := meter.Int64Counter("calculator.transitions.rejected",
		metric.WithDescription("Events rejected as invalid in the current state."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}
	alerts, err := meter.Int64Counter("calculator.divide_by_zero",
		metric.WithDescription("Sessions that entered the divide-by-zero alert."),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating divide by zero counter: %w", err)
	}

	return &TracingEngine{
		next:     next,
		tracer:   otel.Tracer(tracerName),
		applied:  applied,
		rejected: rejected,
		alerts:   alerts,
	}, nil
}

func (e *TracingEngine) Apply(ctx context.Context, current domain.State, c domain.Context, event domain.Event) (domain.State, domain.Context, error) {
	attrs := []attribute.KeyValue{
		attribute.String("calculator.event", string(event.Kind)),
		attribute.String("calculator.state.from", string(current)),
	}
	ctx, span := e.tracer.Start(ctx, "TransitionEngine.Apply", trace.WithAttributes(attrs...))
	defer span.End()

	state, next, err := e.next.Apply(ctx, current, c, event)
	if err != nil {
		var trErr *domain.TransitionError
		var evErr *domain.InvalidEventError
		if errors.As(err, &trErr) || errors.As(err, &evErr) {
			e.rejected.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		return state, next, recordErr(span, err)
	}

	span.SetAttributes(attribute.String("calculator.state.to", string(state)))
	e.applied.Add(ctx, 1, metric.WithAttributes(attrs...))
	if state == domain.StateAlert && current != domain.StateAlert {
		e.alerts.Add(ctx, 1)
	}
	return state, next, nil
}

func (e *TracingEngine) Accepts(state domain.State) []domain.EventKind {
	return e.next.Accepts(state)
}
