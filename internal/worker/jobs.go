package worker

import (
	"context"
)

// OrphanCleaner deletes cards that belong to no deck.
type OrphanCleaner interface {
	CleanupOrphans(ctx context.Context, batchSize int) (int64, error)
}

// SessionExpirer drops idle live review sessions.
type SessionExpirer interface {
	Expire(ctx context.Context) int
}

// CleanupOrphanCardsJob removes cards left behind by deleted decks.
type CleanupOrphanCardsJob struct {
	Cleaner   OrphanCleaner
	BatchSize int
}

func (j *CleanupOrphanCardsJob) Name() string { return "cleanup_orphan_cards" }

func (j *CleanupOrphanCardsJob) Run(ctx context.Context) error {
	_, err := j.Cleaner.CleanupOrphans(ctx, j.BatchSize)
	return err
}

// ExpireSessionsJob discards review sessions nobody touched within the TTL.
type ExpireSessionsJob struct {
	Sessions SessionExpirer
}

func (j *ExpireSessionsJob) Name() string { return "expire_sessions" }

func (j *ExpireSessionsJob) Run(ctx context.Context) error {
	j.Sessions.Expire(ctx)
	return nil
}
