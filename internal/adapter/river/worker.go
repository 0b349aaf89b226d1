package river

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/neomorfeo/calcmachine/internal/domain"
	"github.com/neomorfeo/calcmachine/internal/logging"
)

// ComputationWorker appends recorded computations to the session log.
type ComputationWorker struct {
	river.WorkerDefaults[ComputationJobArgs]

	repo   domain.ComputationRepository
	logger *zap.Logger
}

// NewComputationWorker creates a worker that persists into repo.
func NewComputationWorker(repo domain.ComputationRepository, logger *zap.Logger) *ComputationWorker {
	return &ComputationWorker{repo: repo, logger: logger}
}

// Work processes a single computation job. Errors are returned to River,
// which retries the job with backoff.
func (w *ComputationWorker) Work(ctx context.Context, job *river.Job[ComputationJobArgs]) error {
	logger := logging.WithTrace(ctx, w.logger).With(
		zap.String("computation_id", job.Args.ID),
		zap.String("session_id", job.Args.SessionID),
		zap.Int64("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
	)

	if err := w.repo.Append(ctx, job.Args.Computation()); err != nil {
		logger.Error("recording computation", zap.Error(err))
		return fmt.Errorf("recording computation %s: %w", job.Args.ID, err)
	}

	logger.Info("computation recorded",
		zap.String("expression", job.Args.Expression),
		zap.String("result", job.Args.Result),
	)
	return nil
}
