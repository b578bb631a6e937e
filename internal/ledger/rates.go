package ledger

import "spaceshare-backend/internal/domain"

// Each setter is restricted to the owner role and validates its own
// bound; on success it replaces exactly one stored scalar.

func (l *Ledger) SetPrice(caller domain.Caller, price int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if price <= 0 {
		return domain.ErrInvalidParameter
	}
	l.rates.PricePerHour = price
	return nil
}

func (l *Ledger) SetCommissionRate(caller domain.Caller, percent int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if percent < 0 || percent > 100 {
		return domain.ErrInvalidParameter
	}
	l.rates.CommissionPercent = percent
	return nil
}

func (l *Ledger) SetRefundRate(caller domain.Caller, percent int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if percent < 0 || percent > 100 {
		return domain.ErrInvalidParameter
	}
	l.rates.RefundPercent = percent
	return nil
}

func (l *Ledger) SetReservationCap(caller domain.Caller, limit int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if limit < 0 {
		return domain.ErrInvalidParameter
	}
	l.rates.ReservationCap = limit
	return nil
}

// SetCapacityCeiling additionally rejects a ceiling below the hours
// already listed.
func (l *Ledger) SetCapacityCeiling(caller domain.Caller, ceiling int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.IsOwner() {
		return domain.ErrUnauthorized
	}
	if ceiling < 0 {
		return domain.ErrInvalidParameter
	}
	if err := l.capacity.setCeiling(ceiling); err != nil {
		return err
	}
	l.rates.CapacityCeiling = ceiling
	return nil
}

// Rates returns the current rate configuration.
func (l *Ledger) Rates() domain.Rates {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rates
}
