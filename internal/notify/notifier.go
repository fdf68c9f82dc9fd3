package notify

import (
	"sync"
	"time"

	"kopi-orderflow/internal/order"
)

// Event is one observed status change. From is empty when the order appeared
// in the visible list for the first time.
type Event struct {
	OrderID int
	From    order.Status
	To      order.Status
	At      time.Time
}

// Notifier fans status-change events out to registered subscribers. It is
// fed by the list coordinator's poll loop, so subscribers see exactly the
// changes that survived snapshot suppression.
type Notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns an idempotent unsubscribe func.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.subs {
		fn(e)
	}
}

// Diff derives events from two consecutive poll projections.
func Diff(prev, next []order.Snapshot, at time.Time) []Event {
	byID := make(map[int]order.Snapshot, len(prev))
	for _, s := range prev {
		byID[s.ID] = s
	}

	var events []Event
	for _, s := range next {
		old, seen := byID[s.ID]
		if seen && old.Status == s.Status {
			continue
		}
		e := Event{OrderID: s.ID, To: s.Status, At: at}
		if seen {
			e.From = old.Status
		}
		events = append(events, e)
	}
	return events
}
