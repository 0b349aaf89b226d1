package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

// ComputationRepository implements domain.ComputationRepository using SQLite.
// It shares the connection and schema of a SessionRepository.
type ComputationRepository struct {
	db *sql.DB
}

// NewComputationRepository returns a repository over a migrated database.
func NewComputationRepository(db *sql.DB) *ComputationRepository {
	return &ComputationRepository{db: db}
}

// Append stores a computation. Appending a computation whose ID is already
// stored is a no-op, so redelivered jobs do not duplicate rows.
func (r *ComputationRepository) Append(ctx context.Context, c domain.Computation) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO computations (id, session_id, expression, result, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.SessionID, c.Expression, c.Result,
		c.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("inserting computation: %w", err)
	}
	return nil
}

// List returns the computations of one session, newest first.
func (r *ComputationRepository) List(ctx context.Context, filter domain.ComputationFilter) ([]domain.Computation, error) {
	query := `SELECT id, session_id, expression, result, created_at
		FROM computations WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC`
	args := []any{filter.SessionID}

	// SQLite only accepts OFFSET after a LIMIT; -1 means no limit.
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing computations: %w", err)
	}
	defer rows.Close()

	computations := make([]domain.Computation, 0)
	for rows.Next() {
		var c domain.Computation
		var createdAt string
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Expression, &c.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning computation row: %w", err)
		}
		c.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		computations = append(computations, c)
	}

	return computations, rows.Err()
}
