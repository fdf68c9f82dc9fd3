package order

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotClaimOwner     = errors.New("shipper does not hold the claim")
	ErrAlreadyClaimed    = errors.New("order already claimed by another shipper")
	ErrOrderNotFound     = errors.New("order not found")
)
