package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pruner deletes invocation records created before a cutoff.
type Pruner interface {
	PruneInvocations(ctx context.Context, before time.Time) (int64, error)
}

// RetentionJob keeps the invocation log to the last retention period.
func RetentionJob(pruner Pruner, retention time.Duration, logger *logrus.Logger, now func() time.Time) Job {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if now == nil {
		now = time.Now
	}

	return Job{
		Name: "invocation_retention",
		Run: func(ctx context.Context) error {
			cutoff := now().Add(-retention).UTC()
			deleted, err := pruner.PruneInvocations(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.WithFields(logrus.Fields{
					"deleted": deleted,
					"cutoff":  cutoff.Format(time.RFC3339),
				}).Info("Pruned invocation log")
			}
			return nil
		},
	}
}
