package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/wordladder/internal/logger"
)

// Maintenance periodically enqueues the housekeeping jobs.
type Maintenance struct {
	scheduler *gocron.Scheduler
	queue     JobQueue
	interval  time.Duration
	log       *logger.Logger
}

// NewMaintenance creates a maintenance scheduler firing every interval
func NewMaintenance(queue JobQueue, interval time.Duration) *Maintenance {
	return &Maintenance{
		scheduler: gocron.NewScheduler(time.UTC),
		queue:     queue,
		interval:  interval,
		log:       logger.Default().WithPrefix("maintenance"),
	}
}

// Start registers the tick and runs the scheduler in the background. The
// first tick fires immediately.
func (m *Maintenance) Start() error {
	if _, err := m.scheduler.Every(m.interval).Do(m.RunNow); err != nil {
		return err
	}
	m.scheduler.StartAsync()
	m.log.Info("maintenance scheduled every %v", m.interval)
	return nil
}

// Stop terminates the scheduler. Jobs already queued still run.
func (m *Maintenance) Stop() {
	m.scheduler.Stop()
	m.log.Info("maintenance stopped")
}

// RunNow enqueues every housekeeping job once.
func (m *Maintenance) RunNow() {
	if err := m.queue.EnqueueOrphanCleanup(); err != nil {
		m.log.Warn("failed to enqueue orphan cleanup: %v", err)
	}
	if err := m.queue.EnqueueSessionExpiry(); err != nil {
		m.log.Warn("failed to enqueue session expiry: %v", err)
	}
}
