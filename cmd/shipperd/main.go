package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kopi-orderflow/internal/config"
	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/lifecycle"
	"kopi-orderflow/internal/logger"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/session"

	"go.uber.org/zap"
)

// shipperd is a delivery agent for one shipping order: it watches the order
// list until the order can be claimed, claims it, then reports the device
// position (read as "lat,lng" lines from stdin) while the delivery runs.
func main() {
	orderID := flag.Int("order", 0, "order id to deliver")
	flag.Parse()
	if *orderID <= 0 {
		log.Fatal("usage: shipperd -order <id>")
	}

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	actor, err := session.ActorFromToken(os.Getenv("ACTOR_TOKEN"), cfg.JWTSecret)
	if err != nil {
		logger.L().Fatal("invalid actor token", zap.Error(err))
	}
	if actor.Role != session.RoleShipper {
		logger.L().Fatal("shipperd requires a shipper token", zap.String("role", string(actor.Role)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewHTTPGateway(cfg.BackendURL, actor)
	gc := geo.NewHTTPGeocoder(cfg.MapsURL)

	if err := claimOrder(ctx, gw, actor, cfg, *orderID); err != nil {
		logger.L().Fatal("claim failed", zap.Error(err))
	}

	done := make(chan struct{})
	sess := lifecycle.NewTrackingSession(lifecycle.TrackingConfig{
		Gateway:           gw,
		Geocoder:          gc,
		Source:            newStdinSource(),
		Actor:             actor,
		OrderID:           *orderID,
		Origin:            geo.Coordinate{Lat: cfg.ShopLat, Lng: cfg.ShopLng},
		StatusInterval:    cfg.DetailPollInterval,
		LocationInterval:  cfg.LocationPollInterval,
		ReportMinInterval: cfg.ReportMinInterval,
		OnOrder: func(o order.Order) {
			logger.L().Info("order",
				zap.Int("order_id", o.ID),
				zap.String("status", string(o.Status)),
			)
		},
		OnRoute: func(points []geo.Coordinate) {
			logger.L().Info("route resolved", zap.Int("points", len(points)))
		},
		OnTerminal: func(s order.Status) {
			logger.L().Info("delivery finished", zap.String("status", string(s)))
			close(done)
		},
	})

	if err := sess.Start(ctx); err != nil {
		logger.L().Fatal("tracking failed to start", zap.Error(err))
	}
	defer sess.Stop()

	select {
	case <-ctx.Done():
	case <-done:
	}
}

// claimOrder watches the shipper list until the order is claimable, then
// claims it. Returns immediately when we already hold the claim.
func claimOrder(ctx context.Context, gw gateway.Gateway, actor session.Actor, cfg *config.Config, orderID int) error {
	updates := make(chan lifecycle.ListState, 1)
	view := lifecycle.NewListView(lifecycle.ListViewConfig{
		Gateway:  gw,
		Actor:    actor,
		Filter:   gateway.ListFilter{Type: order.TypeShipping, Page: 1, Limit: 50},
		Interval: cfg.ListPollInterval,
		OnUpdate: func(s lifecycle.ListState) {
			select {
			case updates <- s:
			default:
			}
		},
		OnError: func(err error) {
			logger.L().Warn("order list refresh failed", zap.Error(err))
		},
	})
	view.Start(ctx)
	defer view.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state := <-updates:
			for _, o := range state.Orders {
				if o.ID != orderID {
					continue
				}
				if o.ClaimedBy(actor.ID) {
					return nil
				}
				if !hasAction(state.Actions[o.ID], lifecycle.ActionClaim) {
					continue
				}
				if _, err := view.Claim(ctx, orderID); err != nil {
					if errors.Is(err, order.ErrAlreadyClaimed) {
						return err
					}
					logger.L().Warn("claim attempt failed", zap.Error(err))
					continue
				}
				logger.L().Info("order claimed", zap.Int("order_id", orderID))
				return nil
			}
		}
	}
}

func hasAction(actions []lifecycle.Action, want lifecycle.Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
