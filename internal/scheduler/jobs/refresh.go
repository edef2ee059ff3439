package jobs

import (
	"context"
	"fmt"

	"github.com/dolarscope/backend/internal/aggregator"
	"github.com/dolarscope/backend/pkg/logger"
)

// RefreshJob keeps the score bundle warm so API reads rarely pay the
// collection cost. Running every minute lines up with the bundle TTL:
// each tick lands just after the previous bundle expires.
type RefreshJob struct {
	agg    *aggregator.Aggregator
	logger *logger.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(agg *aggregator.Aggregator, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		agg:    agg,
		logger: log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "score_refresh"
}

// Schedule returns the cron schedule (every minute, with seconds)
func (j *RefreshJob) Schedule() string {
	return "0 * * * * *"
}

// Run recomputes the score bundle and persists the rolling history
func (j *RefreshJob) Run(ctx context.Context) error {
	bundle := j.agg.ScoreBundle(ctx)
	if bundle == nil || len(bundle.History) == 0 {
		return fmt.Errorf("refresh produced empty bundle")
	}

	j.logger.WithFields(map[string]interface{}{
		"score": bundle.Today.Score,
		"bias":  bundle.Today.Bias,
		"days":  len(bundle.History),
	}).Info("Score bundle refreshed")

	return nil
}
