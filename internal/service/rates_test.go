package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spaceshare-backend/internal/domain"
)

func TestRatesService_SetPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsRateChange", func(t *testing.T) {
		engine := newTestEngine(t)
		repo := new(MockJournalRepo)
		repo.On("Append", ctx, mock.MatchedBy(func(e *domain.JournalEntry) bool {
			return e.Type == domain.EntryTypeRateChange && e.Actor == ownerCaller.ID && e.Amount == 750
		})).Return(nil)

		svc := NewRatesService(engine, repo)
		require.NoError(t, svc.SetPrice(ctx, ownerCaller, 750))
		assert.Equal(t, int64(750), engine.Rates().PricePerHour)
		repo.AssertExpectations(t)
	})

	t.Run("EngineRejectionSkipsJournal", func(t *testing.T) {
		engine := newTestEngine(t)
		repo := new(MockJournalRepo)
		svc := NewRatesService(engine, repo)

		err := svc.SetPrice(ctx, alice, 750)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("JournalFailureDoesNotFailOperation", func(t *testing.T) {
		engine := newTestEngine(t)
		repo := new(MockJournalRepo)
		repo.On("Append", ctx, mock.Anything).Return(errors.New("db down"))

		svc := NewRatesService(engine, repo)
		require.NoError(t, svc.SetPrice(ctx, ownerCaller, 750))
		assert.Equal(t, int64(750), engine.Rates().PricePerHour)
	})
}

func TestRatesService_AllSettersJournal(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	repo := new(MockJournalRepo)
	repo.On("Append", ctx, mock.MatchedBy(func(e *domain.JournalEntry) bool {
		return e.Type == domain.EntryTypeRateChange && e.Actor == ownerCaller.ID
	})).Return(nil).Times(5)

	svc := NewRatesService(engine, repo)
	require.NoError(t, svc.SetPrice(ctx, ownerCaller, 600))
	require.NoError(t, svc.SetCommissionRate(ctx, ownerCaller, 10))
	require.NoError(t, svc.SetRefundRate(ctx, ownerCaller, 80))
	require.NoError(t, svc.SetReservationCap(ctx, ownerCaller, 5000))
	require.NoError(t, svc.SetCapacityCeiling(ctx, ownerCaller, 20000))
	repo.AssertExpectations(t)

	rates, err := svc.GetRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Rates{
		PricePerHour:      600,
		CommissionPercent: 10,
		RefundPercent:     80,
		ReservationCap:    5000,
		CapacityCeiling:   20000,
	}, rates)
}
