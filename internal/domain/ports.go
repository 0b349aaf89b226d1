package domain

import "context"

// SessionRepository defines the persistence contract for calculator sessions.
type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, session Session) error
}

// ComputationRepository stores the log of finished computations.
type ComputationRepository interface {
	Append(ctx context.Context, computation Computation) error
	List(ctx context.Context, filter ComputationFilter) ([]Computation, error)
}

// ComputationFilter selects computations of one session.
type ComputationFilter struct {
	SessionID string
	Limit     int
	Offset    int
}

// EventPublisher defines the contract for emitting finished computations.
type EventPublisher interface {
	Publish(ctx context.Context, computation Computation) error
}

// TransitionEngine applies one event to a machine position and context.
type TransitionEngine interface {
	Apply(ctx context.Context, current State, c Context, event Event) (State, Context, error)
	Accepts(state State) []EventKind
}

// Transactor runs fn so that the repository and publisher calls made with
// the context it receives commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
