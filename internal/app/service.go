package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neomorfeo/calcmachine/internal/domain"
	"github.com/neomorfeo/calcmachine/internal/history"
	"github.com/neomorfeo/calcmachine/internal/logging"
)

// Paging bounds for ListComputations.
const (
	DefaultComputationLimit = 20
	MaxComputationLimit     = 100
)

// CalculatorService orchestrates calculator sessions: it loads a session,
// feeds the event to the transition engine and persists the result.
// Dispatches to the same session run one at a time.
type CalculatorService struct {
	repo         domain.SessionRepository
	computations domain.ComputationRepository
	publisher    domain.EventPublisher
	tx           domain.Transactor
	engine       domain.TransitionEngine
	logger       *zap.Logger
	locks        *sessionLocks
}

// NewCalculatorService creates a service with the given adapters.
func NewCalculatorService(
	repo domain.SessionRepository,
	computations domain.ComputationRepository,
	publisher domain.EventPublisher,
	tx domain.Transactor,
	engine domain.TransitionEngine,
	logger *zap.Logger,
) *CalculatorService {
	return &CalculatorService{
		repo:         repo,
		computations: computations,
		publisher:    publisher,
		tx:           tx,
		engine:       engine,
		logger:       logger,
		locks:        newSessionLocks(),
	}
}

// CreateSession persists a new session at the start state.
func (s *CalculatorService) CreateSession(ctx context.Context) (domain.Session, error) {
	id, err := generateID()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generating session id: %w", err)
	}

	session := domain.NewSession(id)
	if err := s.repo.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("creating session: %w", err)
	}

	logging.WithTrace(ctx, s.logger).Info("session created", zap.String("session_id", id))
	return session, nil
}

// GetSession returns a session by its unique identifier.
func (s *CalculatorService) GetSession(ctx context.Context, id string) (domain.Session, error) {
	return s.repo.GetByID(ctx, id)
}

// Dispatch applies one event to a session. A computation is published
// whenever EQUALS or PERCENTAGE lands the session in the result state; the
// session update and the publish commit together.
func (s *CalculatorService) Dispatch(ctx context.Context, id string, event domain.Event) (domain.Session, error) {
	unlock, err := s.locks.acquire(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	defer unlock()

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	expression := session.Context.HistoryInput
	state, c, err := s.engine.Apply(ctx, session.State, session.Context, event)
	if err != nil {
		return domain.Session{}, err
	}
	if state == session.State && c == session.Context {
		return session, nil
	}

	session.State = state
	session.Context = c
	session.UpdatedAt = time.Now().UTC()

	var computation *domain.Computation
	if recordsComputation(event, state) {
		if event.Kind == domain.EventPercentage {
			expression = history.AppendPercent(expression)
		}
		computationID, err := generateID()
		if err != nil {
			return domain.Session{}, fmt.Errorf("generating computation id: %w", err)
		}
		finished := domain.NewComputation(computationID, id, expression, c.Display)
		computation = &finished
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, session); err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		if computation == nil {
			return nil
		}
		if err := s.publisher.Publish(ctx, *computation); err != nil {
			return fmt.Errorf("publishing computation: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	logger := logging.WithTrace(ctx, s.logger).With(
		zap.String("session_id", id),
		zap.String("event", string(event.Kind)),
		zap.String("state", string(state)),
	)
	if state == domain.StateAlert {
		logger.Warn("division by zero")
	}

	if computation == nil {
		logger.Debug("event applied")
		return session, nil
	}

	logger.Info("computation finished",
		zap.String("expression", computation.Expression),
		zap.String("result", computation.Result),
	)
	return session, nil
}

// ListComputations returns the recorded computations of a session, newest
// first. The limit falls back to DefaultComputationLimit and is capped at
// MaxComputationLimit.
func (s *CalculatorService) ListComputations(ctx context.Context, id string, limit, offset int) ([]domain.Computation, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultComputationLimit
	}
	limit = min(limit, MaxComputationLimit)
	offset = max(offset, 0)

	return s.computations.List(ctx, domain.ComputationFilter{
		SessionID: id,
		Limit:     limit,
		Offset:    offset,
	})
}

// Accepts lists the event kinds the session's current state handles.
func (s *CalculatorService) Accepts(session domain.Session) []domain.EventKind {
	return s.engine.Accepts(session.State)
}

func recordsComputation(event domain.Event, state domain.State) bool {
	if state != domain.StateResult {
		return false
	}
	return event.Kind == domain.EventEquals || event.Kind == domain.EventPercentage
}
