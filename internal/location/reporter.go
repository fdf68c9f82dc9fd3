package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Reporter bridges the shipper's device position to the backend. Each fix
// updates the local marker and is forwarded best-effort; individual report
// failures are logged and swallowed since location reporting is not critical
// to order correctness.
type Reporter struct {
	gw      gateway.Gateway
	src     PositionSource
	orderID int
	limiter *rate.Limiter
	onFix   func(geo.Coordinate)

	mu       sync.Mutex
	last     *geo.Coordinate
	clear    func()
	stopped  bool
	stopOnce sync.Once
}

// NewReporter throttles outgoing reports to at most one per minInterval so a
// device emitting rapid fixes does not flood the backend. onFix may be nil.
func NewReporter(gw gateway.Gateway, src PositionSource, orderID int, minInterval time.Duration, onFix func(geo.Coordinate)) *Reporter {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Reporter{
		gw:      gw,
		src:     src,
		orderID: orderID,
		limiter: rate.NewLimiter(limit, 1),
		onFix:   onFix,
	}
}

func (r *Reporter) Start(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(zap.Int("order_id", r.orderID))

	clear, err := r.src.Watch(
		func(c geo.Coordinate) { r.handleFix(ctx, c) },
		func(err error) {
			log.Warn("device position error", zap.Error(err))
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		// stopped while the watch was being registered
		clear()
		return nil
	}
	r.clear = clear

	log.Info("location reporting started")
	return nil
}

func (r *Reporter) handleFix(ctx context.Context, c geo.Coordinate) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.last = &c
	r.mu.Unlock()

	if r.onFix != nil {
		r.onFix(c)
	}

	if !r.limiter.Allow() {
		return
	}

	if err := r.gw.ReportShipperLocation(ctx, r.orderID, c); err != nil {
		logger.FromCtx(ctx).Warn("location report dropped",
			zap.Int("order_id", r.orderID),
			zap.Error(err),
		)
	}
}

// Last returns the most recent device fix, or nil before the first one.
func (r *Reporter) Last() *geo.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Stop unregisters the device watch. Idempotent.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		clear := r.clear
		r.mu.Unlock()

		if clear != nil {
			clear()
		}
	})
}
