package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/order"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListOrders(ctx context.Context, filter gateway.ListFilter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, id int) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockGateway) TransitionStatus(ctx context.Context, id int, target order.Status) (*order.Order, error) {
	args := m.Called(ctx, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockGateway) ClaimOrder(ctx context.Context, id int) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockGateway) GetShippingInfo(ctx context.Context, id int) (*gateway.ShippingInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ShippingInfo), args.Error(1)
}

func (m *MockGateway) GetShipperLocation(ctx context.Context, id int) (*geo.Coordinate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Coordinate), args.Error(1)
}

func (m *MockGateway) ReportShipperLocation(ctx context.Context, id int, coord geo.Coordinate) error {
	args := m.Called(ctx, id, coord)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(geo.Coordinate), args.Error(1)
}

func (m *MockGeocoder) Route(ctx context.Context, origin, dest geo.Coordinate) ([]geo.Coordinate, error) {
	args := m.Called(ctx, origin, dest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]geo.Coordinate), args.Error(1)
}

type fakeSource struct {
	mu      sync.Mutex
	onFix   func(geo.Coordinate)
	watches int
	clears  int
}

func (f *fakeSource) Watch(onFix func(geo.Coordinate), onError func(error)) (func(), error) {
	f.mu.Lock()
	f.onFix = onFix
	f.watches++
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.clears++
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) emit(c geo.Coordinate) {
	f.mu.Lock()
	fix := f.onFix
	f.mu.Unlock()
	if fix != nil {
		fix(c)
	}
}

func (f *fakeSource) watchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watches
}

// --- Helpers ---

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
