package order

import "time"

// Snapshot is the reduced projection used to detect meaningful change
// between polls. Comparing these typed fields (rather than a stringified
// order) keeps the check independent of field ordering in the wire payload.
type Snapshot struct {
	ID        int
	Status    Status
	Total     float64
	Address   string
	CreatedAt time.Time
	ShipperID int
}

func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:        o.ID,
		Status:    o.Status,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
	if o.Address != nil {
		s.Address = *o.Address
	}
	if o.ShipperID != nil {
		s.ShipperID = *o.ShipperID
	}
	return s
}

func (s Snapshot) Equal(other Snapshot) bool {
	return s.ID == other.ID &&
		s.Status == other.Status &&
		s.Total == other.Total &&
		s.Address == other.Address &&
		s.ShipperID == other.ShipperID &&
		s.CreatedAt.Equal(other.CreatedAt)
}

// SnapshotAll projects a sorted order list for comparison against the
// previous poll.
func SnapshotAll(orders []Order) []Snapshot {
	snaps := make([]Snapshot, len(orders))
	for i := range orders {
		snaps[i] = orders[i].Snapshot()
	}
	return snaps
}

func SnapshotsEqual(a, b []Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
