package order

import (
	"kopi-orderflow/internal/session"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusReady     Status = "READY"
	StatusShipping  Status = "SHIPPING"
	StatusPaid      Status = "PAID"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal statuses permit no further transition; all tracking and polling
// for the order must stop once one is reached.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusReady, StatusShipping,
		StatusPaid, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type transition struct {
	from, to   Status
	role       session.Role
	needsClaim bool
}

// The single source of truth for legal transitions. The server re-validates
// independently; this table is advisory fail-fast only.
var transitions = []transition{
	{from: StatusPending, to: StatusAccepted, role: session.RoleCashier},
	{from: StatusPending, to: StatusRejected, role: session.RoleCashier},
	{from: StatusPending, to: StatusCancelled, role: session.RoleCustomer},
	{from: StatusAccepted, to: StatusReady, role: session.RoleCashier},
	{from: StatusReady, to: StatusShipping, role: session.RoleShipper, needsClaim: true},
	{from: StatusShipping, to: StatusPaid, role: session.RoleShipper, needsClaim: true},
	{from: StatusPaid, to: StatusCompleted, role: session.RoleCashier},
}

// ValidateTransition checks the transition table before any network call is
// made. A pair missing from the table, or the wrong actor role, yields
// ErrInvalidTransition; a shipper transition without the claim yields
// ErrNotClaimOwner. Local state must never be updated optimistically on the
// strength of this check alone.
func ValidateTransition(o *Order, target Status, actor session.Actor) error {
	for _, t := range transitions {
		if t.from != o.Status || t.to != target {
			continue
		}
		if t.role != actor.Role {
			return ErrInvalidTransition
		}
		if t.needsClaim && !o.ClaimedBy(actor.ID) {
			return ErrNotClaimOwner
		}
		return nil
	}
	return ErrInvalidTransition
}

// AllowedTargets lists the statuses the actor may move the order to, in
// table order.
func AllowedTargets(o *Order, actor session.Actor) []Status {
	var targets []Status
	for _, t := range transitions {
		if t.from != o.Status || t.role != actor.Role {
			continue
		}
		if t.needsClaim && !o.ClaimedBy(actor.ID) {
			continue
		}
		targets = append(targets, t.to)
	}
	return targets
}
