package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

// TracingTransactor wraps a domain.Transactor so the repository and
// publisher spans of one transaction share a parent.
type TracingTransactor struct {
	next   domain.Transactor
	tracer trace.Tracer
}

// Compile-time check: TracingTransactor implements domain.Transactor.
var _ domain.Transactor = (*TracingTransactor)(nil)

// NewTracingTransactor creates a tracing decorator around the given transactor.
func NewTracingTransactor(next domain.Transactor) *TracingTransactor {
	return &TracingTransactor{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (t *TracingTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, "Transactor.WithinTx")
	defer span.End()

	return recordErr(span, t.next.WithinTx(ctx, fn))
}
