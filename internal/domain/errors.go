package domain

import "errors"

var (
	ErrUnauthorized            = errors.New("caller is not the owner")
	ErrInvalidParameter        = errors.New("parameter outside allowed bounds")
	ErrInvalidDuration         = errors.New("duration must be positive")
	ErrInvalidPrice            = errors.New("price must be positive")
	ErrSameParty               = errors.New("renter and lister are the same participant")
	ErrInsufficientListing     = errors.New("listing does not cover requested hours")
	ErrInsufficientReservation = errors.New("insufficient reservation hours")
	ErrInsufficientFunds       = errors.New("insufficient monetary balance")
	ErrCapacityExceeded        = errors.New("capacity ceiling exceeded")
	ErrRefundUnfunded          = errors.New("platform balance cannot fund refund")
	ErrReservationCapExceeded  = errors.New("per-user reservation cap exceeded")
)
