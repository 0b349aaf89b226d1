package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

const tracerName = "github.com/neomorfeo/calcmachine/internal/adapter/otel"

// TracingSessionRepository wraps a domain.SessionRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingSessionRepository struct {
	next   domain.SessionRepository
	tracer trace.Tracer
}

// Compile-time check: TracingSessionRepository implements domain.SessionRepository.
var _ domain.SessionRepository = (*TracingSessionRepository)(nil)

// NewTracingSessionRepository creates a tracing decorator around the given repository.
func NewTracingSessionRepository(next domain.SessionRepository) *TracingSessionRepository {
	return &TracingSessionRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingSessionRepository) Create(ctx context.Context, session domain.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Create",
		trace.WithAttributes(attribute.String("session.id", session.ID)),
	)
	defer span.End()

	return recordErr(span, r.next.Create(ctx, session))
}

func (r *TracingSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.GetByID",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	session, err := r.next.GetByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("session.state", string(session.State)))
	}
	return session, recordErr(span, err)
}

func (r *TracingSessionRepository) Update(ctx context.Context, session domain.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Update",
		trace.WithAttributes(
			attribute.String("session.id", session.ID),
			attribute.String("session.state", string(session.State)),
		),
	)
	defer span.End()

	return recordErr(span, r.next.Update(ctx, session))
}

// TracingComputationRepository wraps a domain.ComputationRepository with OpenTelemetry tracing.
type TracingComputationRepository struct {
	next   domain.ComputationRepository
	tracer trace.Tracer
}

// Compile-time check: TracingComputationRepository implements domain.ComputationRepository.
var _ domain.ComputationRepository = (*TracingComputationRepository)(nil)

// NewTracingComputationRepository creates a tracing decorator around the given repository.
func NewTracingComputationRepository(next domain.ComputationRepository) *TracingComputationRepository {
	return &TracingComputationRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingComputationRepository) Append(ctx context.Context, c domain.Computation) error {
	ctx, span := r.tracer.Start(ctx, "ComputationRepository.Append",
		trace.WithAttributes(
			attribute.String("computation.id", c.ID),
			attribute.String("session.id", c.SessionID),
		),
	)
	defer span.End()

	return recordErr(span, r.next.Append(ctx, c))
}

func (r *TracingComputationRepository) List(ctx context.Context, filter domain.ComputationFilter) ([]domain.Computation, error) {
	ctx, span := r.tracer.Start(ctx, "ComputationRepository.List",
		trace.WithAttributes(
			attribute.String("session.id", filter.SessionID),
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	computations, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(computations)))
	}
	return computations, recordErr(span, err)
}

// recordErr marks span as failed when err is non-nil and passes err through.
func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
