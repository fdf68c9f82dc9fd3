package gateway

import (
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/order"
)

func toOrder(dto orderDTO) order.Order {
	o := order.Order{
		ID:          dto.ID,
		Status:      order.Status(dto.Status),
		Address:     dto.Address,
		ShipperID:   dto.ShipperID,
		TableNumber: dto.TableNumber,
		Subtotal:    dto.Subtotal,
		ShippingFee: dto.ShippingFee,
		Discount:    dto.Discount,
		Total:       dto.Total,
		CreatedAt:   dto.CreatedAt,
	}

	for _, item := range dto.Products {
		o.Products = append(o.Products, order.LineItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Size:     item.Size,
			AddOns:   item.AddOns,
			Subtotal: item.Subtotal,
		})
	}

	return o
}

func toOrders(dtos []orderDTO) []order.Order {
	orders := make([]order.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, toOrder(dto))
	}
	return orders
}

func toShippingInfo(dto shippingInfoDTO) *ShippingInfo {
	info := &ShippingInfo{Address: dto.Address}
	if dto.Lat != nil && dto.Lng != nil {
		info.Coord = &geo.Coordinate{Lat: *dto.Lat, Lng: *dto.Lng}
	}
	return info
}
