package lifecycle

import (
	"errors"

	"kopi-orderflow/internal/claim"
	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/order"
)

// Severity tells a view how to surface a coordinator error.
type Severity int

const (
	// SeverityBlocking replaces or overlays the view (invalid transition,
	// missing order). Never retried.
	SeverityBlocking Severity = iota
	// SeverityNotice is a transient toast (claim race lost, local claim
	// guard); navigation continues.
	SeverityNotice
	// SeverityRetryable is a transient transport failure; user-initiated
	// actions get a retry affordance, polling simply waits for the next
	// tick.
	SeverityRetryable
)

// Classify maps an error from the gateway or coordinators onto the surfacing
// policy. Unknown errors are treated as blocking.
func Classify(err error) Severity {
	switch {
	case gateway.IsNetwork(err):
		return SeverityRetryable
	case errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, claim.ErrActiveClaimHeld),
		errors.Is(err, claim.ErrNotClaimable):
		return SeverityNotice
	default:
		return SeverityBlocking
	}
}
