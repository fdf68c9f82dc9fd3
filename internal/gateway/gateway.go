package gateway

import (
	"context"

	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/order"
)

// ListFilter scopes a list query. Type decides the server-side scoping
// (table-service vs delivery orders); Status is optional.
type ListFilter struct {
	Status *order.Status
	Type   order.Type
	Page   int
	Limit  int
}

// ShippingInfo is the delivery destination for an order. Coord is set when
// the backend already resolved the address; otherwise callers geocode the
// textual address themselves.
type ShippingInfo struct {
	Address string
	Coord   *geo.Coordinate
}

// Gateway is the only component permitted to perform network I/O for orders.
// It holds no state beyond connection plumbing; every call is scoped to the
// actor whose token it was built with.
type Gateway interface {
	ListOrders(ctx context.Context, filter ListFilter) ([]order.Order, error)
	GetOrder(ctx context.Context, id int) (*order.Order, error)
	TransitionStatus(ctx context.Context, id int, target order.Status) (*order.Order, error)
	ClaimOrder(ctx context.Context, id int) (*order.Order, error)
	GetShippingInfo(ctx context.Context, id int) (*ShippingInfo, error)
	GetShipperLocation(ctx context.Context, id int) (*geo.Coordinate, error)
	ReportShipperLocation(ctx context.Context, id int, coord geo.Coordinate) error
}
