package jobs

import (
	"github.com/vytor/wordladder/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	cleaner   worker.OrphanCleaner
	sessions  worker.SessionExpirer
	batchSize int
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	cleaner worker.OrphanCleaner,
	sessions worker.SessionExpirer,
	batchSize int,
) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		cleaner:   cleaner,
		sessions:  sessions,
		batchSize: batchSize,
	}
}

func (q *WorkerQueue) EnqueueOrphanCleanup() error {
	return q.pool.Submit(&worker.CleanupOrphanCardsJob{
		Cleaner:   q.cleaner,
		BatchSize: q.batchSize,
	})
}

func (q *WorkerQueue) EnqueueSessionExpiry() error {
	return q.pool.Submit(&worker.ExpireSessionsJob{Sessions: q.sessions})
}
