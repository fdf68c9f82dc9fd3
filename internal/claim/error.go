package claim

import "errors"

var (
	// ErrActiveClaimHeld means the shipper already has an order in an
	// active claimed state and may not take a second one.
	ErrActiveClaimHeld = errors.New("shipper already holds an active claim")

	// ErrNotClaimable covers the remaining ineligibility cases: wrong actor
	// role or an order status outside the claimable window.
	ErrNotClaimable = errors.New("order is not claimable by this actor")
)
