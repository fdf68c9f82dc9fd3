package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kopi-orderflow/internal/claim"
	"kopi-orderflow/internal/gateway"
	"kopi-orderflow/internal/logger"
	"kopi-orderflow/internal/notify"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/poll"
	"kopi-orderflow/internal/session"

	"go.uber.org/zap"
)

// ListState is what a list view renders: the visible orders (newest first)
// and the actions enabled per order for the current actor.
type ListState struct {
	Orders  []order.Order
	Actions map[int][]Action
}

type ListViewConfig struct {
	Gateway  gateway.Gateway
	Actor    session.Actor
	Filter   gateway.ListFilter
	Interval time.Duration

	// OnUpdate receives a new state only when the comparison snapshot
	// changed since the previous poll, so interactive elements do not
	// flicker under a user's cursor.
	OnUpdate func(ListState)
	// Notifier, when set, receives status-change events derived from
	// consecutive polls.
	Notifier *notify.Notifier
	// OnError is optional; polling errors are deferred to the next tick
	// either way.
	OnError func(error)
}

// ListView drives one order-list view: periodic fetch, role post-filter,
// deterministic sort, snapshot suppression, and action gating. All order
// mutations go through Transition/Claim so local state only ever reflects a
// confirmed server response.
type ListView struct {
	cfg    ListViewConfig
	claims *claim.Coordinator
	sched  *poll.Scheduler[listSnapshot]

	mu        sync.RWMutex
	state     ListState
	prevSnaps []order.Snapshot
}

type listSnapshot struct {
	orders []order.Order
	snaps  []order.Snapshot
}

func NewListView(cfg ListViewConfig) *ListView {
	v := &ListView{
		cfg:    cfg,
		claims: claim.NewCoordinator(cfg.Gateway, cfg.Actor),
	}

	v.sched = poll.New(poll.Config[listSnapshot]{
		Interval: cfg.Interval,
		Refresh:  v.refresh,
		Equal: func(a, b listSnapshot) bool {
			return order.SnapshotsEqual(a.snaps, b.snaps)
		},
		OnChange: func(s listSnapshot) bool {
			v.apply(s)
			return true
		},
		OnError: cfg.OnError,
	})

	return v
}

// Start begins polling; the first snapshot is fetched immediately.
func (v *ListView) Start(ctx context.Context) {
	v.sched.Start(ctx)
}

// Stop halts polling. Idempotent; no state update fires after it returns.
func (v *ListView) Stop() {
	v.sched.Stop()
}

// State returns the last propagated state.
func (v *ListView) State() ListState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *ListView) refresh(ctx context.Context) (listSnapshot, error) {
	orders, err := v.cfg.Gateway.ListOrders(ctx, v.cfg.Filter)
	if err != nil {
		return listSnapshot{}, err
	}

	orders = postFilter(orders, v.cfg.Actor)
	order.SortForDisplay(orders)

	return listSnapshot{orders: orders, snaps: order.SnapshotAll(orders)}, nil
}

// postFilter applies the role-specific view rules on top of the server
// filter: a shipper only works with orders a cashier already accepted.
func postFilter(orders []order.Order, actor session.Actor) []order.Order {
	if actor.Role != session.RoleShipper {
		return orders
	}
	kept := orders[:0]
	for _, o := range orders {
		if o.Status != order.StatusPending {
			kept = append(kept, o)
		}
	}
	return kept
}

func (v *ListView) apply(s listSnapshot) {
	actions := make(map[int][]Action, len(s.orders))
	for i := range s.orders {
		actions[s.orders[i].ID] = AvailableActions(&s.orders[i], v.cfg.Actor, s.orders, v.claims)
	}

	v.mu.Lock()
	prev := v.prevSnaps
	v.prevSnaps = s.snaps
	v.state = ListState{Orders: s.orders, Actions: actions}
	state := v.state
	v.mu.Unlock()

	if v.cfg.Notifier != nil {
		for _, e := range notify.Diff(prev, s.snaps, time.Now()) {
			v.cfg.Notifier.Publish(e)
		}
	}

	if v.cfg.OnUpdate != nil {
		v.cfg.OnUpdate(state)
	}
}

// Transition issues a user-initiated status change. The transition table is
// checked before any network call; on failure the local state is left
// untouched, on success the confirmed server order replaces the local copy.
func (v *ListView) Transition(ctx context.Context, orderID int, target order.Status) (*order.Order, error) {
	local, ok := v.find(orderID)
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	if err := order.ValidateTransition(&local, target, v.cfg.Actor); err != nil {
		return nil, err
	}

	updated, err := v.cfg.Gateway.TransitionStatus(ctx, orderID, target)
	if err != nil {
		return nil, fmt.Errorf("transition %d to %s: %w", orderID, target, err)
	}

	v.applyConfirmed(*updated)
	return updated, nil
}

// Claim attempts to claim an unclaimed order for the acting shipper. Losing
// the race triggers an immediate list refresh so the winner becomes visible.
func (v *ListView) Claim(ctx context.Context, orderID int) (*order.Order, error) {
	local, ok := v.find(orderID)
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	v.mu.RLock()
	visible := v.state.Orders
	v.mu.RUnlock()

	claimed, err := v.claims.Claim(ctx, &local, visible)
	if err != nil {
		if errors.Is(err, order.ErrAlreadyClaimed) {
			logger.FromCtx(ctx).Info("claim race lost, refreshing list",
				zap.Int("order_id", orderID))
			v.sched.Poke()
		}
		return nil, err
	}

	v.applyConfirmed(*claimed)
	return claimed, nil
}

func (v *ListView) find(orderID int) (order.Order, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, o := range v.state.Orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return order.Order{}, false
}

// applyConfirmed folds one confirmed server response into the local state
// without waiting for the next poll.
func (v *ListView) applyConfirmed(updated order.Order) {
	v.mu.RLock()
	orders := make([]order.Order, len(v.state.Orders))
	copy(orders, v.state.Orders)
	v.mu.RUnlock()

	for i := range orders {
		if orders[i].ID == updated.ID {
			orders[i] = updated
			break
		}
	}
	order.SortForDisplay(orders)

	v.apply(listSnapshot{orders: orders, snaps: order.SnapshotAll(orders)})
}
