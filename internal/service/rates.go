package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/ledger"
	"spaceshare-backend/internal/logger"
	"spaceshare-backend/internal/repository"
)

type ratesService struct {
	ledger      *ledger.Ledger
	journalRepo repository.JournalRepository
}

func NewRatesService(l *ledger.Ledger, journalRepo repository.JournalRepository) RatesService {
	return &ratesService{
		ledger:      l,
		journalRepo: journalRepo,
	}
}

// recordChange journals a committed configuration change. As with the
// market journal, the engine state is authoritative and an append
// failure is logged without undoing the change.
func (s *ratesService) recordChange(ctx context.Context, caller domain.Caller, value int64, description string) {
	entry := &domain.JournalEntry{
		ID:          uuid.NewString(),
		Type:        domain.EntryTypeRateChange,
		Actor:       caller.ID,
		Amount:      value,
		Description: description,
		RecordedAt:  time.Now().UTC(),
	}
	if err := s.journalRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to record rate change", "description", description, "error", err)
	}
}

func (s *ratesService) SetPrice(ctx context.Context, caller domain.Caller, price int64) error {
	if err := s.ledger.SetPrice(caller, price); err != nil {
		return fmt.Errorf("set price: %w", err)
	}
	s.recordChange(ctx, caller, price, fmt.Sprintf("price per hour set to %d", price))
	logger.Info("Price updated", "by", caller.ID, "price", price)
	return nil
}

func (s *ratesService) SetCommissionRate(ctx context.Context, caller domain.Caller, percent int64) error {
	if err := s.ledger.SetCommissionRate(caller, percent); err != nil {
		return fmt.Errorf("set commission rate: %w", err)
	}
	s.recordChange(ctx, caller, percent, fmt.Sprintf("commission rate set to %d%%", percent))
	logger.Info("Commission rate updated", "by", caller.ID, "percent", percent)
	return nil
}

func (s *ratesService) SetRefundRate(ctx context.Context, caller domain.Caller, percent int64) error {
	if err := s.ledger.SetRefundRate(caller, percent); err != nil {
		return fmt.Errorf("set refund rate: %w", err)
	}
	s.recordChange(ctx, caller, percent, fmt.Sprintf("refund rate set to %d%%", percent))
	logger.Info("Refund rate updated", "by", caller.ID, "percent", percent)
	return nil
}

func (s *ratesService) SetReservationCap(ctx context.Context, caller domain.Caller, limit int64) error {
	if err := s.ledger.SetReservationCap(caller, limit); err != nil {
		return fmt.Errorf("set reservation cap: %w", err)
	}
	s.recordChange(ctx, caller, limit, fmt.Sprintf("reservation cap set to %d", limit))
	logger.Info("Reservation cap updated", "by", caller.ID, "cap", limit)
	return nil
}

func (s *ratesService) SetCapacityCeiling(ctx context.Context, caller domain.Caller, ceiling int64) error {
	if err := s.ledger.SetCapacityCeiling(caller, ceiling); err != nil {
		return fmt.Errorf("set capacity ceiling: %w", err)
	}
	s.recordChange(ctx, caller, ceiling, fmt.Sprintf("capacity ceiling set to %d", ceiling))
	logger.Info("Capacity ceiling updated", "by", caller.ID, "ceiling", ceiling)
	return nil
}

func (s *ratesService) GetRates(ctx context.Context) (domain.Rates, error) {
	return s.ledger.Rates(), nil
}
