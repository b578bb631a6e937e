package ledger

import "spaceshare-backend/internal/domain"

// capacityTracker is the single running counter of globally listed
// hours, bounded by the owner-set ceiling. It is only ever touched by
// the listing operations, under the engine's lock.
type capacityTracker struct {
	reserved int64
	ceiling  int64
}

// reserve applies a signed delta to the counter. A positive delta that
// would push the counter past the ceiling is rejected; a negative delta
// clamps at zero rather than underflowing.
func (c *capacityTracker) reserve(delta int64) error {
	next := c.reserved + delta
	if delta > 0 && (next < c.reserved || next > c.ceiling) {
		return domain.ErrCapacityExceeded
	}
	if next < 0 {
		next = 0
	}
	c.reserved = next
	return nil
}

// setCeiling rejects a ceiling below the hours already committed.
func (c *capacityTracker) setCeiling(ceiling int64) error {
	if ceiling < c.reserved {
		return domain.ErrInvalidParameter
	}
	c.ceiling = ceiling
	return nil
}

func (c *capacityTracker) status() domain.CapacityStatus {
	return domain.CapacityStatus{Reserved: c.reserved, Ceiling: c.ceiling}
}
