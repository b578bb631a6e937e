package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spaceshare-backend/internal/domain"
)

type MockJournalRepo struct {
	mock.Mock
}

func (m *MockJournalRepo) Append(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepo) ListByParticipant(ctx context.Context, id domain.ParticipantID, page, pageSize int32) ([]domain.JournalEntry, int32, error) {
	args := m.Called(ctx, id, page, pageSize)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	return entries, args.Get(1).(int32), args.Error(2)
}
