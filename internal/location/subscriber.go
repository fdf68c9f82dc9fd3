package location

import (
	"context"
	"time"

	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/poll"
)

// Subscriber polls the backend for the shipper's reported position on a
// fixed interval. A nil coordinate means the shipper has not reported yet;
// that is an expected state, not an error.
type Subscriber struct {
	sched *poll.Scheduler[*geo.Coordinate]
}

func NewSubscriber(gw gateway.Gateway, orderID int, interval time.Duration, onFix func(geo.Coordinate)) *Subscriber {
	return &Subscriber{
		sched: poll.New(poll.Config[*geo.Coordinate]{
			Interval: interval,
			Refresh: func(ctx context.Context) (*geo.Coordinate, error) {
				return gw.GetShipperLocation(ctx, orderID)
			},
			Equal: coordPtrEqual,
			OnChange: func(c *geo.Coordinate) bool {
				if c != nil {
					onFix(*c)
				}
				return true
			},
		}),
	}
}

func (s *Subscriber) Start(ctx context.Context) {
	s.sched.Start(ctx)
}

// Stop clears the polling interval. Idempotent.
func (s *Subscriber) Stop() {
	s.sched.Stop()
}

func coordPtrEqual(a, b *geo.Coordinate) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
