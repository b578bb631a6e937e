package service

import (
	"context"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/ledger"
)

type AuthService interface {
	ExchangeOwnerSecret(ctx context.Context, ownerID string, secret string) (string, error)
	IssueParticipantToken(ctx context.Context, caller domain.Caller, id domain.ParticipantID) (string, error)
}

type MarketService interface {
	AddListing(ctx context.Context, caller domain.Caller, hours, price int64) (domain.Listing, error)
	RemoveListing(ctx context.Context, caller domain.Caller, hours int64) (domain.Listing, error)
	Rent(ctx context.Context, caller domain.Caller, lister domain.ParticipantID, hours int64) (*ledger.RentReceipt, error)
	Refund(ctx context.Context, caller domain.Caller, hours int64) (*ledger.RefundReceipt, error)
	Purchase(ctx context.Context, caller domain.Caller, hours int64) (*ledger.PurchaseReceipt, error)
	Deposit(ctx context.Context, caller domain.Caller, participant domain.ParticipantID, amount int64) error

	GetAccount(ctx context.Context, id domain.ParticipantID) (domain.Account, error)
	GetListing(ctx context.Context, id domain.ParticipantID) (domain.Listing, error)
	GetCapacity(ctx context.Context) (domain.CapacityStatus, error)
	GetJournal(ctx context.Context, id domain.ParticipantID, page, pageSize int32) ([]domain.JournalEntry, int32, error)
}

type RatesService interface {
	SetPrice(ctx context.Context, caller domain.Caller, price int64) error
	SetCommissionRate(ctx context.Context, caller domain.Caller, percent int64) error
	SetRefundRate(ctx context.Context, caller domain.Caller, percent int64) error
	SetReservationCap(ctx context.Context, caller domain.Caller, limit int64) error
	SetCapacityCeiling(ctx context.Context, caller domain.Caller, ceiling int64) error
	GetRates(ctx context.Context) (domain.Rates, error)
}
