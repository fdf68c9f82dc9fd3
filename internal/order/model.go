package order

import (
	"sort"
	"time"
)

// Type scopes list queries server-side: an order is either table-service or
// a delivery. Delivery orders always carry a non-nil address.
type Type string

const (
	TypeTable    Type = "TABLE"
	TypeShipping Type = "SHIPPING"
)

type Order struct {
	ID          int
	Status      Status
	Address     *string
	ShipperID   *int
	TableNumber *int
	Products    []LineItem
	Subtotal    float64
	ShippingFee float64
	Discount    float64
	Total       float64
	CreatedAt   time.Time
}

type LineItem struct {
	Name     string
	Quantity int
	Size     string
	AddOns   []string
	Subtotal float64
}

// ClaimedBy reports whether the given shipper holds the claim on the order.
func (o *Order) ClaimedBy(shipperID int) bool {
	return o.ShipperID != nil && *o.ShipperID == shipperID
}

func (o *Order) Unclaimed() bool {
	return o.ShipperID == nil
}

// SortForDisplay orders a list newest first. The server does not guarantee
// any ordering, so this must be re-applied on every refresh; ties on
// CreatedAt are broken by ID descending so repeated sorts are deterministic.
func SortForDisplay(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}
