package claim

import (
	"context"

	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/logger"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/session"

	"go.uber.org/zap"
)

// activeClaimStatus marks the statuses in which a held claim counts as
// active. PAID and terminal orders no longer block a shipper from claiming
// the next one.
func activeClaimStatus(s order.Status) bool {
	return s == order.StatusAccepted || s == order.StatusReady || s == order.StatusShipping
}

// HasActiveClaim reports whether the shipper already holds an order in an
// active claimed state within the visible list.
func HasActiveClaim(orders []order.Order, shipperID int) bool {
	for i := range orders {
		if orders[i].ClaimedBy(shipperID) && activeClaimStatus(orders[i].Status) {
			return true
		}
	}
	return false
}

// Coordinator gates the claim action client-side. This is a UX guard only:
// the backend's claim endpoint is the single arbiter of the race between
// shippers, and a lost race must be handled by refreshing the list.
type Coordinator struct {
	gw    gateway.Gateway
	actor session.Actor
}

func NewCoordinator(gw gateway.Gateway, actor session.Actor) *Coordinator {
	return &Coordinator{gw: gw, actor: actor}
}

// CanClaim decides whether the claim action may be offered for the order,
// given the currently visible list.
func (c *Coordinator) CanClaim(o *order.Order, visible []order.Order) bool {
	if c.actor.Role != session.RoleShipper {
		return false
	}
	if !o.Unclaimed() {
		return false
	}
	if o.Status != order.StatusAccepted && o.Status != order.StatusReady {
		return false
	}
	return !HasActiveClaim(visible, c.actor.ID)
}

// Claim attempts to bind the order to the acting shipper. Local
// ineligibility fails fast without a network call; a lost server-side race
// surfaces as order.ErrAlreadyClaimed, after which the caller must refresh
// so the list shows the winner rather than a stale "claimed by me" state.
func (c *Coordinator) Claim(ctx context.Context, o *order.Order, visible []order.Order) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int("order_id", o.ID),
		zap.Int("shipper_id", c.actor.ID),
	)

	if !o.Unclaimed() {
		return nil, order.ErrAlreadyClaimed
	}
	if HasActiveClaim(visible, c.actor.ID) {
		return nil, ErrActiveClaimHeld
	}
	if !c.CanClaim(o, visible) {
		return nil, ErrNotClaimable
	}

	claimed, err := c.gw.ClaimOrder(ctx, o.ID)
	if err != nil {
		log.Warn("claim not granted", zap.Error(err))
		return nil, err
	}

	log.Info("claim granted")
	return claimed, nil
}
