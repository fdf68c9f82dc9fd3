package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = session.Actor{ID: 7, Role: session.RoleShipper, Token: "token-7"}

func newTestGateway(t *testing.T, handler http.HandlerFunc) Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL, testActor)
}

const orderJSON = `{
	"id": 42,
	"status": "READY",
	"address": "12 Bean St",
	"shipper_id": null,
	"table_number": null,
	"products": [{"name": "Latte", "quantity": 2, "size": "L", "add_ons": ["oat milk"], "subtotal": 90000}],
	"subtotal": 90000,
	"shipping_fee": 15000,
	"discount": 5000,
	"total": 100000,
	"created_at": "2026-08-01T12:00:00Z"
}`

func TestListOrders(t *testing.T) {
	t.Run("Builds query and maps payload", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)
			assert.Equal(t, "Bearer token-7", r.Header.Get("Authorization"))
			assert.Equal(t, "SHIPPING", r.URL.Query().Get("type"))
			assert.Equal(t, "READY", r.URL.Query().Get("status"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"data":[` + orderJSON + `]}`))
		})

		status := order.StatusReady
		orders, err := gw.ListOrders(context.Background(), ListFilter{
			Status: &status,
			Type:   order.TypeShipping,
			Page:   1,
			Limit:  20,
		})
		require.NoError(t, err)
		require.Len(t, orders, 1)

		o := orders[0]
		assert.Equal(t, 42, o.ID)
		assert.Equal(t, order.StatusReady, o.Status)
		require.NotNil(t, o.Address)
		assert.Equal(t, "12 Bean St", *o.Address)
		assert.Nil(t, o.ShipperID)
		assert.Equal(t, 100000.0, o.Total)
		assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), o.CreatedAt)
		require.Len(t, o.Products, 1)
		assert.Equal(t, "Latte", o.Products[0].Name)
		assert.Equal(t, []string{"oat milk"}, o.Products[0].AddOns)
	})

	t.Run("Backend unreachable yields NetworkError", func(t *testing.T) {
		gw := NewHTTPGateway("http://127.0.0.1:1", testActor)
		_, err := gw.ListOrders(context.Background(), ListFilter{Type: order.TypeTable})
		assert.True(t, IsNetwork(err))
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders/42", r.URL.Path)
			w.Write([]byte(`{"data":` + orderJSON + `}`))
		})

		o, err := gw.GetOrder(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 42, o.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"order not visible"}`))
		})

		_, err := gw.GetOrder(context.Background(), 999)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
		assert.Contains(t, err.Error(), "order not visible")
	})
}

func TestTransitionStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/orders/42/status", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req transitionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "SHIPPING", req.Status)

			shipped := `{"data":{"id":42,"status":"SHIPPING","shipper_id":7,"created_at":"2026-08-01T12:00:00Z"}}`
			w.Write([]byte(shipped))
		})

		o, err := gw.TransitionStatus(context.Background(), 42, order.StatusShipping)
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipping, o.Status)
		require.NotNil(t, o.ShipperID)
		assert.Equal(t, 7, *o.ShipperID)
	})

	t.Run("Server rejects transition", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"cannot accept cancelled order"}`))
		})

		_, err := gw.TransitionStatus(context.Background(), 42, order.StatusAccepted)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("Server rejects non-owner", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"claim held by shipper 8"}`))
		})

		_, err := gw.TransitionStatus(context.Background(), 42, order.StatusPaid)
		assert.ErrorIs(t, err, order.ErrNotClaimOwner)
	})
}

func TestClaimOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders/42/claim", r.URL.Path)
			w.Write([]byte(`{"data":{"id":42,"status":"READY","shipper_id":7,"created_at":"2026-08-01T12:00:00Z"}}`))
		})

		o, err := gw.ClaimOrder(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, o.ClaimedBy(7))
	})

	t.Run("Race lost", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"claimed by shipper 8"}`))
		})

		_, err := gw.ClaimOrder(context.Background(), 42)
		assert.ErrorIs(t, err, order.ErrAlreadyClaimed)
	})
}

func TestGetShippingInfo(t *testing.T) {
	t.Run("With server-resolved coordinate", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/shipping/42/info", r.URL.Path)
			w.Write([]byte(`{"data":{"address":"12 Bean St","lat":10.76,"lng":106.66}}`))
		})

		info, err := gw.GetShippingInfo(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "12 Bean St", info.Address)
		require.NotNil(t, info.Coord)
		assert.Equal(t, geo.Coordinate{Lat: 10.76, Lng: 106.66}, *info.Coord)
	})

	t.Run("Address only", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"address":"12 Bean St","lat":null,"lng":null}}`))
		})

		info, err := gw.GetShippingInfo(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, info.Coord)
	})
}

func TestShipperLocation(t *testing.T) {
	t.Run("Location available", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/shipping/42/location", r.URL.Path)
			w.Write([]byte(`{"lat":10.7,"lng":106.6}`))
		})

		coord, err := gw.GetShipperLocation(context.Background(), 42)
		require.NoError(t, err)
		require.NotNil(t, coord)
		assert.Equal(t, geo.Coordinate{Lat: 10.7, Lng: 106.6}, *coord)
	})

	t.Run("Not yet available is nil, not an error", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		})

		coord, err := gw.GetShipperLocation(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, coord)
	})

	t.Run("Report location", func(t *testing.T) {
		var got locationDTO
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/shipping/42/location", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		})

		err := gw.ReportShipperLocation(context.Background(), 42, geo.Coordinate{Lat: 10.7, Lng: 106.6})
		require.NoError(t, err)
		assert.Equal(t, locationDTO{Lat: 10.7, Lng: 106.6}, got)
	})
}

func TestMapError(t *testing.T) {
	g := &httpGateway{}

	tests := []struct {
		name string
		code int
		want error
	}{
		{"404 maps to not found", http.StatusNotFound, order.ErrOrderNotFound},
		{"409 maps to already claimed", http.StatusConflict, order.ErrAlreadyClaimed},
		{"403 maps to not claim owner", http.StatusForbidden, order.ErrNotClaimOwner},
		{"400 maps to invalid transition", http.StatusBadRequest, order.ErrInvalidTransition},
		{"422 maps to invalid transition", http.StatusUnprocessableEntity, order.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.mapError("test", tt.code, []byte(`{"error":"detail"}`))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("5xx is a network error", func(t *testing.T) {
		err := g.mapError("test", http.StatusBadGateway, []byte("upstream down"))
		assert.True(t, IsNetwork(err))
	})
}
