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

type marketService struct {
	ledger      *ledger.Ledger
	journalRepo repository.JournalRepository
}

func NewMarketService(l *ledger.Ledger, journalRepo repository.JournalRepository) MarketService {
	return &marketService{
		ledger:      l,
		journalRepo: journalRepo,
	}
}

// recordEntry appends a journal entry for a committed operation. The
// engine state is authoritative; a journal failure is logged and does
// not undo the operation.
func (s *marketService) recordEntry(ctx context.Context, entry *domain.JournalEntry) {
	entry.ID = uuid.NewString()
	entry.RecordedAt = time.Now().UTC()
	if err := s.journalRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to record journal entry", "type", entry.Type, "actor", entry.Actor, "error", err)
	}
}

func (s *marketService) AddListing(ctx context.Context, caller domain.Caller, hours, price int64) (domain.Listing, error) {
	listing, err := s.ledger.AddListing(caller.ID, hours, price)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("add listing: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:        domain.EntryTypeListing,
		Actor:       caller.ID,
		Hours:       hours,
		Description: fmt.Sprintf("listed %d hours at %d per hour", hours, price),
	})
	logger.Info("Listing added", "owner", caller.ID, "hours", hours, "price", price, "total_offered", listing.HoursOffered)
	return listing, nil
}

func (s *marketService) RemoveListing(ctx context.Context, caller domain.Caller, hours int64) (domain.Listing, error) {
	listing, err := s.ledger.RemoveListing(caller.ID, hours)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("remove listing: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:        domain.EntryTypeUnlisting,
		Actor:       caller.ID,
		Hours:       hours,
		Description: fmt.Sprintf("unlisted %d hours", hours),
	})
	logger.Info("Listing removed", "owner", caller.ID, "hours", hours, "remaining", listing.HoursOffered)
	return listing, nil
}

func (s *marketService) Rent(ctx context.Context, caller domain.Caller, lister domain.ParticipantID, hours int64) (*ledger.RentReceipt, error) {
	receipt, err := s.ledger.Rent(caller.ID, lister, hours)
	if err != nil {
		return nil, fmt.Errorf("rent: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:         domain.EntryTypeRental,
		Actor:        caller.ID,
		Counterparty: lister,
		Hours:        hours,
		Amount:       -receipt.TotalCost,
		Commission:   receipt.Commission,
		Description:  fmt.Sprintf("rented %d hours from %s", hours, lister),
	})
	logger.Info("Rental completed",
		"renter", caller.ID, "lister", lister, "hours", hours,
		"rental_cost", receipt.RentalCost, "commission", receipt.Commission)
	return &receipt, nil
}

func (s *marketService) Refund(ctx context.Context, caller domain.Caller, hours int64) (*ledger.RefundReceipt, error) {
	receipt, err := s.ledger.Refund(caller.ID, hours)
	if err != nil {
		return nil, fmt.Errorf("refund: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:        domain.EntryTypeRefund,
		Actor:       caller.ID,
		Hours:       hours,
		Amount:      receipt.Amount,
		Description: fmt.Sprintf("refunded %d hours for %d", hours, receipt.Amount),
	})
	logger.Info("Refund completed", "user", caller.ID, "hours", hours, "amount", receipt.Amount)
	return &receipt, nil
}

func (s *marketService) Purchase(ctx context.Context, caller domain.Caller, hours int64) (*ledger.PurchaseReceipt, error) {
	receipt, err := s.ledger.Purchase(caller.ID, hours)
	if err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:        domain.EntryTypePurchase,
		Actor:       caller.ID,
		Hours:       hours,
		Amount:      -receipt.Cost,
		Description: fmt.Sprintf("purchased %d reservation hours for %d", hours, receipt.Cost),
	})
	logger.Info("Purchase completed", "user", caller.ID, "hours", hours, "cost", receipt.Cost)
	return &receipt, nil
}

func (s *marketService) Deposit(ctx context.Context, caller domain.Caller, participant domain.ParticipantID, amount int64) error {
	if err := s.ledger.Deposit(caller, participant, amount); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	s.recordEntry(ctx, &domain.JournalEntry{
		Type:        domain.EntryTypeDeposit,
		Actor:       participant,
		Amount:      amount,
		Description: fmt.Sprintf("deposit of %d confirmed by %s", amount, caller.ID),
	})
	logger.Info("Deposit confirmed", "participant", participant, "amount", amount, "by", caller.ID)
	return nil
}

func (s *marketService) GetAccount(ctx context.Context, id domain.ParticipantID) (domain.Account, error) {
	return s.ledger.Account(id), nil
}

func (s *marketService) GetListing(ctx context.Context, id domain.ParticipantID) (domain.Listing, error) {
	return s.ledger.Listing(id), nil
}

func (s *marketService) GetCapacity(ctx context.Context) (domain.CapacityStatus, error) {
	return s.ledger.Capacity(), nil
}

func (s *marketService) GetJournal(ctx context.Context, id domain.ParticipantID, page, pageSize int32) ([]domain.JournalEntry, int32, error) {
	return s.journalRepo.ListByParticipant(ctx, id, page, pageSize)
}
