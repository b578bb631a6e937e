package jobs

import (
	"context"
	"time"

	"spaceshare-backend/internal/config"
	"spaceshare-backend/internal/ledger"
	"spaceshare-backend/internal/logger"
	"spaceshare-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	engine    *ledger.Ledger
	snapshots repository.SnapshotRepository
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(engine *ledger.Ledger, snapshots repository.SnapshotRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		engine:    engine,
		snapshots: snapshots,
		config:    cfg,
	}
}

// Config returns the loaded configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// PersistSnapshot writes the engine's current state to the database so
// it can be restored on the next startup.
func (jr *JobRunner) PersistSnapshot() {
	jr.runWithRecovery("persist-snapshot", func() {
		log := logger.WithJob("persist-snapshot")

		snap := jr.engine.Snapshot()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := jr.snapshots.Save(ctx, snap); err != nil {
			log.Error("Failed to persist snapshot", "error", err)
			return
		}
		log.Info("Snapshot persisted",
			"accounts", len(snap.Balances),
			"listings", len(snap.Listings),
			"reserved_hours", snap.Capacity)
	})
}

// AuditCapacity compares the running capacity counter against the sum
// of listed hours and logs the drift. Rentals consume listed hours
// without moving the counter, so some drift is expected; the audit
// exists to catch the counter falling below the listed sum, which
// would indicate corruption.
func (jr *JobRunner) AuditCapacity() {
	jr.runWithRecovery("audit-capacity", func() {
		log := logger.WithJob("audit-capacity")

		counter, listedSum := jr.engine.AuditCapacity()
		if counter < listedSum {
			log.Error("Capacity counter below listed hours", "counter", counter, "listed_sum", listedSum)
			return
		}
		log.Info("Capacity audit", "counter", counter, "listed_sum", listedSum)
	})
}
