package gateway

import "time"

type lineItemDTO struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size"`
	AddOns   []string `json:"add_ons,omitempty"`
	Subtotal float64  `json:"subtotal"`
}

type orderDTO struct {
	ID          int           `json:"id"`
	Status      string        `json:"status"`
	Address     *string       `json:"address"`
	ShipperID   *int          `json:"shipper_id"`
	TableNumber *int          `json:"table_number"`
	Products    []lineItemDTO `json:"products"`
	Subtotal    float64       `json:"subtotal"`
	ShippingFee float64       `json:"shipping_fee"`
	Discount    float64       `json:"discount"`
	Total       float64       `json:"total"`
	CreatedAt   time.Time     `json:"created_at"`
}

type listOrdersResponse struct {
	Data []orderDTO `json:"data"`
}

type orderResponse struct {
	Data orderDTO `json:"data"`
}

type shippingInfoDTO struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type shippingInfoResponse struct {
	Data shippingInfoDTO `json:"data"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type transitionRequest struct {
	Status string `json:"status"`
}
