package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/librarium/internal/audit"
)

// OrphanEngagementCleaner deletes comments and ratings whose article no
// longer exists.
type OrphanEngagementCleaner interface {
	DeleteOrphans() (int64, error)
}

// IntegritySweepTask removes engagement rows left behind by interrupted
// article deletions. The cascade delete normally handles this inline; the
// sweep is the safety net.
type IntegritySweepTask struct{}

// Config returns the queue configuration for integrity sweeps.
func (t IntegritySweepTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "integrity_sweep",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// IntegritySweepProcessor creates a processor function for IntegritySweepTask.
// The auditor may be nil.
func IntegritySweepProcessor(cleaner OrphanEngagementCleaner, auditor *audit.Service) backlite.QueueProcessor[IntegritySweepTask] {
	return func(ctx context.Context, task IntegritySweepTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan engagement cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphans()
		if auditor != nil {
			auditor.LogSweep(deleted, err)
		}
		if err != nil {
			return fmt.Errorf("integrity sweep: %w", err)
		}

		if deleted > 0 {
			log.Printf("[TASK] Integrity sweep removed %d orphaned engagement rows", deleted)
		}
		return nil
	}
}

// NewIntegritySweepQueue creates a backlite queue for integrity sweeps,
// honoring the retry and timeout settings in cfg.
func NewIntegritySweepQueue(cleaner OrphanEngagementCleaner, auditor *audit.Service, cfg Config) backlite.Queue {
	return applyQueueSettings(backlite.NewQueue(IntegritySweepProcessor(cleaner, auditor)), cfg)
}
