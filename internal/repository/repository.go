package repository

import (
	"context"

	"spaceshare-backend/internal/domain"
)

// JournalRepository persists the append-only operation journal.
type JournalRepository interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
	ListByParticipant(ctx context.Context, id domain.ParticipantID, page, pageSize int32) ([]domain.JournalEntry, int32, error)
}

// SnapshotRepository persists full engine state. Save replaces the
// previous snapshot in one transaction; Load returns nil when nothing
// has been persisted yet.
type SnapshotRepository interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context) (*domain.Snapshot, error)
}
