// Package ledger implements the accounting engine for the space-rental
// marketplace: per-participant reservation-hour and monetary balances,
// per-participant listings, and the global capacity counter, kept
// mutually consistent by validate-first, all-or-nothing operations.
package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"spaceshare-backend/internal/domain"
)

// mulAmount multiplies two non-negative amounts, rejecting a product
// that does not fit in int64. A wrapped product would turn a cost
// negative and invert every sufficiency check downstream of it.
func mulAmount(a, b int64) (int64, error) {
	if a > 0 && b > math.MaxInt64/a {
		return 0, domain.ErrInvalidParameter
	}
	return a * b, nil
}

// Ledger owns all mutable marketplace state. One instance is
// constructed at startup and shared by reference; a single mutex is the
// transaction boundary, so every operation is observed either not at
// all or fully applied.
type Ledger struct {
	mu sync.Mutex

	platform     domain.ParticipantID
	rates        domain.Rates
	capacity     capacityTracker
	reservations map[domain.ParticipantID]int64
	balances     map[domain.ParticipantID]int64
	listings     map[domain.ParticipantID]domain.Listing
}

// New creates an empty ledger. The platform account accumulates
// commission and funds refunds; it starts at zero like any other
// account.
func New(platform domain.ParticipantID, rates domain.Rates) (*Ledger, error) {
	if platform.IsZero() {
		return nil, fmt.Errorf("platform account: %w", domain.ErrInvalidParameter)
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("initial rates: %w", err)
	}
	return &Ledger{
		platform:     platform,
		rates:        rates,
		capacity:     capacityTracker{ceiling: rates.CapacityCeiling},
		reservations: make(map[domain.ParticipantID]int64),
		balances:     make(map[domain.ParticipantID]int64),
		listings:     make(map[domain.ParticipantID]domain.Listing),
	}, nil
}

// Platform returns the distinguished commission/refund account.
func (l *Ledger) Platform() domain.ParticipantID {
	return l.platform
}

// AddListing offers hours for rent at the given price. The accumulated
// offer must stay within the owner's reservation balance, and the
// global capacity counter within its ceiling. The latest call's price
// applies to the whole accumulated offer.
func (l *Ledger) AddListing(owner domain.ParticipantID, hours, price int64) (domain.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return domain.Listing{}, domain.ErrInvalidDuration
	}
	if price <= 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}
	existing := l.listings[owner]
	// Subtraction form so an enormous hours value cannot wrap the
	// accumulated offer past the reservation check.
	if l.reservations[owner]-existing.HoursOffered < hours {
		return domain.Listing{}, domain.ErrInsufficientReservation
	}
	if err := l.capacity.reserve(hours); err != nil {
		return domain.Listing{}, err
	}

	updated := domain.Listing{
		Owner:        owner,
		HoursOffered: existing.HoursOffered + hours,
		PricePerHour: price,
	}
	l.listings[owner] = updated
	return updated, nil
}

// RemoveListing withdraws hours from the owner's offer and releases
// them from the capacity counter. The stored price is preserved for
// whatever remains listed.
func (l *Ledger) RemoveListing(owner domain.ParticipantID, hours int64) (domain.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return domain.Listing{}, domain.ErrInvalidDuration
	}
	existing := l.listings[owner]
	if existing.HoursOffered < hours {
		return domain.Listing{}, domain.ErrInsufficientListing
	}
	if err := l.capacity.reserve(-hours); err != nil {
		return domain.Listing{}, err
	}

	updated := domain.Listing{
		Owner:        owner,
		HoursOffered: existing.HoursOffered - hours,
		PricePerHour: existing.PricePerHour,
	}
	l.listings[owner] = updated
	return updated, nil
}

// RentReceipt reports the money moved by a completed rental.
type RentReceipt struct {
	Renter         domain.ParticipantID
	Lister         domain.ParticipantID
	Hours          int64
	RentalCost     int64
	Commission     int64
	TotalCost      int64
	RemainingOffer int64
}

// Rent consumes hours from the lister's offer. The renter must already
// hold at least that many reservation hours; the consumed hours are
// re-credited to the renter in the same step, so rented hours remain
// usable by the renter indefinitely while the lister's offer shrinks.
// The renter pays the rental cost plus commission; the commission goes
// to the platform account.
func (l *Ledger) Rent(renter, lister domain.ParticipantID, hours int64) (RentReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if renter == lister {
		return RentReceipt{}, domain.ErrSameParty
	}
	if hours <= 0 {
		return RentReceipt{}, domain.ErrInvalidDuration
	}
	listing := l.listings[lister]
	if listing.HoursOffered < hours {
		return RentReceipt{}, domain.ErrInsufficientListing
	}
	if l.reservations[renter] < hours {
		return RentReceipt{}, domain.ErrInsufficientReservation
	}

	rentalCost, err := mulAmount(hours, listing.PricePerHour)
	if err != nil {
		return RentReceipt{}, err
	}
	scaled, err := mulAmount(rentalCost, l.rates.CommissionPercent)
	if err != nil {
		return RentReceipt{}, err
	}
	commission := scaled / 100
	totalCost := rentalCost + commission
	if totalCost < 0 {
		return RentReceipt{}, domain.ErrInvalidParameter
	}
	if l.balances[renter] < totalCost {
		return RentReceipt{}, domain.ErrInsufficientFunds
	}

	listing.HoursOffered -= hours
	l.listings[lister] = listing
	// The renter's reservation hours are consumed and re-credited in
	// the same step, so their balance is unchanged.
	l.balances[renter] -= totalCost
	l.balances[lister] += rentalCost
	l.balances[l.platform] += commission

	return RentReceipt{
		Renter:         renter,
		Lister:         lister,
		Hours:          hours,
		RentalCost:     rentalCost,
		Commission:     commission,
		TotalCost:      totalCost,
		RemainingOffer: listing.HoursOffered,
	}, nil
}

// RefundReceipt reports the money moved by a completed refund.
type RefundReceipt struct {
	User             domain.ParticipantID
	Hours            int64
	Amount           int64
	RemainingReserve int64
}

// Refund converts reservation hours back into money at the current
// global price, discounted by the refund rate. The refund is paid from
// the platform account, which must be able to fund it.
func (l *Ledger) Refund(user domain.ParticipantID, hours int64) (RefundReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return RefundReceipt{}, domain.ErrInvalidDuration
	}
	if l.reservations[user] < hours {
		return RefundReceipt{}, domain.ErrInsufficientReservation
	}
	gross, err := mulAmount(hours, l.rates.PricePerHour)
	if err != nil {
		return RefundReceipt{}, err
	}
	scaled, err := mulAmount(gross, l.rates.RefundPercent)
	if err != nil {
		return RefundReceipt{}, err
	}
	amount := scaled / 100
	if l.balances[l.platform] < amount {
		return RefundReceipt{}, domain.ErrRefundUnfunded
	}

	l.reservations[user] -= hours
	l.balances[l.platform] -= amount
	l.balances[user] += amount

	return RefundReceipt{
		User:             user,
		Hours:            hours,
		Amount:           amount,
		RemainingReserve: l.reservations[user],
	}, nil
}

// PurchaseReceipt reports the money moved by a reservation purchase.
type PurchaseReceipt struct {
	User       domain.ParticipantID
	Hours      int64
	Cost       int64
	NewReserve int64
}

// Purchase buys reservation hours at the current global price, paid to
// the platform account. A non-zero reservation cap bounds the hours any
// one participant may hold.
func (l *Ledger) Purchase(user domain.ParticipantID, hours int64) (PurchaseReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return PurchaseReceipt{}, domain.ErrInvalidDuration
	}
	if l.rates.ReservationCap > 0 && hours > l.rates.ReservationCap-l.reservations[user] {
		return PurchaseReceipt{}, domain.ErrReservationCapExceeded
	}
	cost, err := mulAmount(hours, l.rates.PricePerHour)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	if l.balances[user] < cost {
		return PurchaseReceipt{}, domain.ErrInsufficientFunds
	}

	l.balances[user] -= cost
	l.balances[l.platform] += cost
	l.reservations[user] += hours

	return PurchaseReceipt{
		User:       user,
		Hours:      hours,
		Cost:       cost,
		NewReserve: l.reservations[user],
	}, nil
}

// Deposit credits a participant's monetary balance. It models the owner
// confirming an external payment, so it is restricted to the owner
// role.
func (l *Ledger) Deposit(caller domain.Caller, user domain.ParticipantID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if amount <= 0 || user.IsZero() {
		return domain.ErrInvalidParameter
	}
	l.balances[user] += amount
	return nil
}

// Listing returns the participant's current offer; an absent entry
// reads as an empty offer.
func (l *Ledger) Listing(id domain.ParticipantID) domain.Listing {
	l.mu.Lock()
	defer l.mu.Unlock()
	listing := l.listings[id]
	listing.Owner = id
	return listing
}

// ReservationBalance returns the hours a participant holds; absent
// entries read as zero.
func (l *Ledger) ReservationBalance(id domain.ParticipantID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reservations[id]
}

// MonetaryBalance returns a participant's money; absent entries read as
// zero.
func (l *Ledger) MonetaryBalance(id domain.ParticipantID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id]
}

// Account returns both balances for a participant in one consistent
// read.
func (l *Ledger) Account(id domain.ParticipantID) domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.Account{
		ID:               id,
		ReservationHours: l.reservations[id],
		Balance:          l.balances[id],
	}
}

// Capacity returns the listed-hours counter and its ceiling.
func (l *Ledger) Capacity() domain.CapacityStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity.status()
}

// Snapshot copies the full engine state under the transaction boundary.
func (l *Ledger) Snapshot() domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := domain.Snapshot{
		Rates:        l.rates,
		Capacity:     l.capacity.reserved,
		Reservations: make(map[domain.ParticipantID]int64, len(l.reservations)),
		Balances:     make(map[domain.ParticipantID]int64, len(l.balances)),
		Listings:     make(map[domain.ParticipantID]domain.Listing, len(l.listings)),
		TakenAt:      time.Now().UTC(),
	}
	for id, hours := range l.reservations {
		snap.Reservations[id] = hours
	}
	for id, amount := range l.balances {
		snap.Balances[id] = amount
	}
	for id, listing := range l.listings {
		snap.Listings[id] = listing
	}
	return snap
}

// Restore replaces the engine state with a previously taken snapshot.
func (l *Ledger) Restore(snap domain.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := snap.Rates.Validate(); err != nil {
		return fmt.Errorf("snapshot rates: %w", err)
	}
	if snap.Capacity < 0 || snap.Capacity > snap.Rates.CapacityCeiling {
		return fmt.Errorf("snapshot capacity %d: %w", snap.Capacity, domain.ErrInvalidParameter)
	}

	l.rates = snap.Rates
	l.capacity = capacityTracker{reserved: snap.Capacity, ceiling: snap.Rates.CapacityCeiling}
	l.reservations = make(map[domain.ParticipantID]int64, len(snap.Reservations))
	l.balances = make(map[domain.ParticipantID]int64, len(snap.Balances))
	l.listings = make(map[domain.ParticipantID]domain.Listing, len(snap.Listings))
	for id, hours := range snap.Reservations {
		l.reservations[id] = hours
	}
	for id, amount := range snap.Balances {
		l.balances[id] = amount
	}
	for id, listing := range snap.Listings {
		l.listings[id] = listing
	}
	return nil
}

// AuditCapacity recomputes the sum of listed hours and reports it next
// to the running counter. Rentals consume listed hours without moving
// the counter, so the counter may exceed the sum; it must never fall
// below it.
func (l *Ledger) AuditCapacity() (counter, listedSum int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, listing := range l.listings {
		listedSum += listing.HoursOffered
	}
	return l.capacity.reserved, listedSum
}
