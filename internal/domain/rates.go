package domain

// Rates holds the owner-settable scalars that price every operation.
// CommissionPercent and RefundPercent are whole percentages in [0,100].
type Rates struct {
	PricePerHour      int64 `json:"price_per_hour" yaml:"price_per_hour"`
	CommissionPercent int64 `json:"commission_percent" yaml:"commission_percent"`
	RefundPercent     int64 `json:"refund_percent" yaml:"refund_percent"`
	ReservationCap    int64 `json:"reservation_cap" yaml:"reservation_cap"`
	CapacityCeiling   int64 `json:"capacity_ceiling" yaml:"capacity_ceiling"`
}

// Validate checks the scalar bounds that hold regardless of ledger
// state. The ceiling-vs-committed-capacity check lives in the engine,
// which knows the running counter.
func (r Rates) Validate() error {
	if r.PricePerHour <= 0 {
		return ErrInvalidPrice
	}
	if r.CommissionPercent < 0 || r.CommissionPercent > 100 {
		return ErrInvalidParameter
	}
	if r.RefundPercent < 0 || r.RefundPercent > 100 {
		return ErrInvalidParameter
	}
	if r.ReservationCap < 0 || r.CapacityCeiling < 0 {
		return ErrInvalidParameter
	}
	return nil
}
