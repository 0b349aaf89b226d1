package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/calcmachine/internal/adapter/sqlite"
	"github.com/neomorfeo/calcmachine/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// ComputationJobArgs carries a finished computation to the worker that
// records it. River serializes this as JSON into its job queue table, so the
// worker never needs to read the session back.
type ComputationJobArgs struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (ComputationJobArgs) Kind() string { return "computation.recorded" }

// Computation converts the job payload back into the domain type.
func (a ComputationJobArgs) Computation() domain.Computation {
	return domain.Computation{
		ID:         a.ID,
		SessionID:  a.SessionID,
		Expression: a.Expression,
		Result:     a.Result,
		CreatedAt:  a.CreatedAt,
	}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a computation as an async job in River. Inside a
// transaction opened by sqlite.Transactor the job is inserted in that
// transaction and only becomes visible on commit.
func (p *Publisher) Publish(ctx context.Context, c domain.Computation) error {
	args := ComputationJobArgs{
		ID:         c.ID,
		SessionID:  c.SessionID,
		Expression: c.Expression,
		Result:     c.Result,
		CreatedAt:  c.CreatedAt,
	}

	var err error
	if tx, ok := sqlite.TxFromContext(ctx); ok {
		_, err = p.client.InsertTx(ctx, tx, args, nil)
	} else {
		_, err = p.client.Insert(ctx, args, nil)
	}
	if err != nil {
		return fmt.Errorf("enqueuing computation job: %w", err)
	}
	return nil
}
