package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/location"
	"kopi-orderflow/internal/logger"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/poll"
	"kopi-orderflow/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultStatusInterval = 10 * time.Second

type TrackingConfig struct {
	Gateway  gateway.Gateway
	Geocoder geo.Geocoder
	// Source is the device geolocation capability; only consulted when the
	// actor is the claiming shipper.
	Source location.PositionSource
	Actor  session.Actor

	OrderID int
	// Origin is the shop coordinate, a fixed configured constant.
	Origin geo.Coordinate

	StatusInterval    time.Duration
	LocationInterval  time.Duration
	ReportMinInterval time.Duration

	OnOrder           func(order.Order)
	OnShipperLocation func(geo.Coordinate)
	OnRoute           func([]geo.Coordinate)
	OnTerminal        func(order.Status)
}

// TrackingSession owns everything alive for one open tracking view: the
// status poll, the location reporter or subscriber, and the resolved
// destination. It must be stopped when the view closes; it stops itself when
// the order reaches a terminal status, after which no further network call
// is made for this session.
type TrackingSession struct {
	id  string
	cfg TrackingConfig

	dest geo.Coordinate

	reporter   *location.Reporter
	subscriber *location.Subscriber
	statusPoll *poll.Scheduler[*order.Order]

	stopOnce sync.Once
}

func NewTrackingSession(cfg TrackingConfig) *TrackingSession {
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = defaultStatusInterval
	}
	if cfg.LocationInterval <= 0 {
		cfg.LocationInterval = cfg.StatusInterval
	}
	return &TrackingSession{
		id:  uuid.New().String(),
		cfg: cfg,
	}
}

// ID correlates this session's log lines.
func (s *TrackingSession) ID() string { return s.id }

// Destination is valid after a successful Start.
func (s *TrackingSession) Destination() geo.Coordinate { return s.dest }

// Start resolves the destination, picks reporter or subscriber mode, and
// begins status polling. Setup failures (order fetch, shipping info,
// geocode of the destination) are returned to the caller as a full-view
// error; a denied device or failed route lookup only degrades the session.
func (s *TrackingSession) Start(ctx context.Context) error {
	ctx = logger.WithSessionID(ctx, s.id)
	log := logger.FromCtx(ctx).With(zap.Int("order_id", s.cfg.OrderID))

	o, err := s.cfg.Gateway.GetOrder(ctx, s.cfg.OrderID)
	if err != nil {
		return fmt.Errorf("tracking setup: %w", err)
	}

	if s.cfg.OnOrder != nil {
		s.cfg.OnOrder(*o)
	}

	if o.Status.Terminal() {
		log.Info("order already terminal, not tracking", zap.String("status", string(o.Status)))
		if s.cfg.OnTerminal != nil {
			s.cfg.OnTerminal(o.Status)
		}
		return nil
	}

	if err := s.resolveDestination(ctx); err != nil {
		return err
	}

	if s.cfg.Actor.Role == session.RoleShipper && o.ClaimedBy(s.cfg.Actor.ID) {
		s.startReporter(ctx, log)
	} else {
		s.subscriber = location.NewSubscriber(s.cfg.Gateway, s.cfg.OrderID, s.cfg.LocationInterval, s.onShipperFix)
		s.subscriber.Start(ctx)
	}

	s.statusPoll = poll.New(poll.Config[*order.Order]{
		Interval: s.cfg.StatusInterval,
		Refresh: func(ctx context.Context) (*order.Order, error) {
			return s.cfg.Gateway.GetOrder(ctx, s.cfg.OrderID)
		},
		Equal: func(a, b *order.Order) bool {
			return a.Snapshot().Equal(b.Snapshot())
		},
		OnChange: s.onOrderRefresh,
	})
	s.statusPoll.Start(ctx)

	log.Info("tracking session started")
	return nil
}

func (s *TrackingSession) resolveDestination(ctx context.Context) error {
	info, err := s.cfg.Gateway.GetShippingInfo(ctx, s.cfg.OrderID)
	if err != nil {
		return fmt.Errorf("tracking setup: %w", err)
	}

	// prefer the server-resolved coordinate, geocode the address otherwise
	if info.Coord != nil {
		s.dest = *info.Coord
		return nil
	}

	coord, err := s.cfg.Geocoder.Geocode(ctx, info.Address)
	if err != nil {
		return fmt.Errorf("tracking setup: geocode %q: %w", info.Address, err)
	}
	s.dest = coord
	return nil
}

func (s *TrackingSession) startReporter(ctx context.Context, log *zap.Logger) {
	s.reporter = location.NewReporter(
		s.cfg.Gateway,
		s.cfg.Source,
		s.cfg.OrderID,
		s.cfg.ReportMinInterval,
		s.onShipperFix,
	)
	if err := s.reporter.Start(ctx); err != nil {
		// degraded mode: markers and status still work, no outgoing reports
		log.Warn("location reporting unavailable", zap.Error(err))
		s.reporter = nil
	}

	s.drawRoute(ctx, log)
}

// drawRoute is best-effort; a failed lookup degrades to markers only.
func (s *TrackingSession) drawRoute(ctx context.Context, log *zap.Logger) {
	if s.cfg.OnRoute == nil {
		return
	}

	from := s.cfg.Origin
	if s.reporter != nil {
		if last := s.reporter.Last(); last != nil {
			from = *last
		}
	}

	points, err := s.cfg.Geocoder.Route(ctx, from, s.dest)
	if err != nil {
		log.Warn("route unavailable, markers only", zap.Error(err))
		return
	}
	s.cfg.OnRoute(points)
}

func (s *TrackingSession) onShipperFix(c geo.Coordinate) {
	if s.cfg.OnShipperLocation != nil {
		s.cfg.OnShipperLocation(c)
	}
}

// onOrderRefresh runs inside the status poll loop. Reaching a terminal
// status tears down location tracking and halts the poll itself by
// returning false; polling a shipper's live location past that point would
// be a privacy leak, not just wasted calls.
func (s *TrackingSession) onOrderRefresh(o *order.Order) bool {
	if s.cfg.OnOrder != nil {
		s.cfg.OnOrder(*o)
	}

	if !o.Status.Terminal() {
		return true
	}

	s.stopLocation()
	if s.cfg.OnTerminal != nil {
		s.cfg.OnTerminal(o.Status)
	}
	return false
}

func (s *TrackingSession) stopLocation() {
	if s.reporter != nil {
		s.reporter.Stop()
	}
	if s.subscriber != nil {
		s.subscriber.Stop()
	}
}

// Stop tears the whole session down: device watch, location polling, status
// polling. Idempotent and safe after a terminal self-stop.
func (s *TrackingSession) Stop() {
	s.stopOnce.Do(func() {
		s.stopLocation()
		if s.statusPoll != nil {
			s.statusPoll.Stop()
		}
	})
}
