package main

import (
	"context"
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

// ordertail follows a single order until it reaches a terminal status,
// logging every status change, shipper position, and the delivery route.
func main() {
	orderID := flag.Int("order", 0, "order id to follow")
	flag.Parse()
	if *orderID <= 0 {
		log.Fatal("usage: ordertail -order <id>")
	}

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	actor, err := session.ActorFromToken(os.Getenv("ACTOR_TOKEN"), cfg.JWTSecret)
	if err != nil {
		logger.L().Fatal("invalid actor token", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewHTTPGateway(cfg.BackendURL, actor)
	gc := geo.NewHTTPGeocoder(cfg.MapsURL)

	done := make(chan struct{})
	sess := lifecycle.NewTrackingSession(lifecycle.TrackingConfig{
		Gateway:          gw,
		Geocoder:         gc,
		Actor:            actor,
		OrderID:          *orderID,
		Origin:           geo.Coordinate{Lat: cfg.ShopLat, Lng: cfg.ShopLng},
		StatusInterval:   cfg.DetailPollInterval,
		LocationInterval: cfg.LocationPollInterval,
		OnOrder: func(o order.Order) {
			logger.L().Info("order",
				zap.Int("order_id", o.ID),
				zap.String("status", string(o.Status)),
				zap.Float64("total", o.Total),
			)
		},
		OnShipperLocation: func(c geo.Coordinate) {
			logger.L().Info("shipper position", zap.Float64("lat", c.Lat), zap.Float64("lng", c.Lng))
		},
		OnRoute: func(points []geo.Coordinate) {
			logger.L().Info("route resolved", zap.Int("points", len(points)))
		},
		OnTerminal: func(s order.Status) {
			logger.L().Info("order finished", zap.String("status", string(s)))
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
