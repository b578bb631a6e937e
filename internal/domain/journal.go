package domain

import "time"

type EntryType string

const (
	EntryTypeListing    EntryType = "LISTING"
	EntryTypeUnlisting  EntryType = "UNLISTING"
	EntryTypeRental     EntryType = "RENTAL"
	EntryTypeRefund     EntryType = "REFUND"
	EntryTypePurchase   EntryType = "PURCHASE"
	EntryTypeDeposit    EntryType = "DEPOSIT"
	EntryTypeRateChange EntryType = "RATE_CHANGE"
)

// JournalEntry is the append-only record of one committed operation.
// The journal is an audit trail; the snapshot tables, not the journal,
// are the recovery source for engine state.
type JournalEntry struct {
	ID           string        `json:"id"`
	Type         EntryType     `json:"type"`
	Actor        ParticipantID `json:"actor"`
	Counterparty ParticipantID `json:"counterparty,omitempty"`
	Hours        int64         `json:"hours"`
	Amount       int64         `json:"amount"` // money moved for the actor, negative for debit
	Commission   int64         `json:"commission,omitempty"`
	Description  string        `json:"description"`
	RecordedAt   time.Time     `json:"recorded_at"`
}

// Account is the read-only view of one participant's balances.
type Account struct {
	ID               ParticipantID `json:"id"`
	ReservationHours int64         `json:"reservation_hours"`
	Balance          int64         `json:"balance"`
}

// CapacityStatus reports the global listed-hours counter against its
// ceiling.
type CapacityStatus struct {
	Reserved int64 `json:"reserved"`
	Ceiling  int64 `json:"ceiling"`
}

// Snapshot is a full copy of engine state, taken and restored under the
// engine's transaction boundary.
type Snapshot struct {
	Rates        Rates
	Capacity     int64
	Reservations map[ParticipantID]int64
	Balances     map[ParticipantID]int64
	Listings     map[ParticipantID]Listing
	TakenAt      time.Time
}
