package lifecycle

import (
	"kopi-orderflow/internal/claim"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/session"
)

// Action is a user-facing button the coordinator may offer for an order.
type Action string

const (
	ActionAccept        Action = "ACCEPT"
	ActionReject        Action = "REJECT"
	ActionCancel        Action = "CANCEL"
	ActionMarkReady     Action = "MARK_READY"
	ActionClaim         Action = "CLAIM"
	ActionStartShipping Action = "START_SHIPPING"
	ActionMarkPaid      Action = "MARK_PAID"
	ActionComplete      Action = "COMPLETE"
)

var actionByTarget = map[order.Status]Action{
	order.StatusAccepted:  ActionAccept,
	order.StatusRejected:  ActionReject,
	order.StatusCancelled: ActionCancel,
	order.StatusReady:     ActionMarkReady,
	order.StatusShipping:  ActionStartShipping,
	order.StatusPaid:      ActionMarkPaid,
	order.StatusCompleted: ActionComplete,
}

// TargetFor maps an offered action back to the status transition it issues.
func TargetFor(a Action) (order.Status, bool) {
	for target, action := range actionByTarget {
		if action == a {
			return target, true
		}
	}
	return "", false
}

// AvailableActions computes the buttons visible to the actor for one order,
// given the currently visible list (needed for the single-active-claim rule).
func AvailableActions(o *order.Order, actor session.Actor, visible []order.Order, claims *claim.Coordinator) []Action {
	var actions []Action
	for _, target := range order.AllowedTargets(o, actor) {
		actions = append(actions, actionByTarget[target])
	}
	if claims != nil && claims.CanClaim(o, visible) {
		actions = append(actions, ActionClaim)
	}
	return actions
}
