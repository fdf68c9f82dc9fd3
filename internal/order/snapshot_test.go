package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSnapshot(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	o := Order{
		ID:        42,
		Status:    StatusReady,
		Address:   strPtr("12 Bean St"),
		ShipperID: intPtr(7),
		Total:     85000,
		CreatedAt: created,
	}

	snap := o.Snapshot()
	assert.Equal(t, 42, snap.ID)
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, "12 Bean St", snap.Address)
	assert.Equal(t, 7, snap.ShipperID)

	t.Run("Nil fields project to zero values", func(t *testing.T) {
		table := Order{ID: 1, Status: StatusPending, CreatedAt: created}
		snap := table.Snapshot()
		assert.Equal(t, "", snap.Address)
		assert.Equal(t, 0, snap.ShipperID)
	})
}

func TestSnapshotsEqual(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := Order{ID: 1, Status: StatusPending, Total: 50000, CreatedAt: created}
	b := Order{ID: 2, Status: StatusReady, Total: 60000, CreatedAt: created, ShipperID: intPtr(7)}

	t.Run("Identical projections", func(t *testing.T) {
		assert.True(t, SnapshotsEqual(SnapshotAll([]Order{a, b}), SnapshotAll([]Order{a, b})))
	})

	t.Run("Irrelevant field changes are suppressed", func(t *testing.T) {
		// Line items are not part of the projection; a differing product
		// list alone must not register as a change.
		b2 := b
		b2.Products = []LineItem{{Name: "Latte", Quantity: 2, Size: "L", Subtotal: 60000}}
		assert.True(t, SnapshotsEqual(SnapshotAll([]Order{a, b}), SnapshotAll([]Order{a, b2})))
	})

	t.Run("Status change detected", func(t *testing.T) {
		b2 := b
		b2.Status = StatusShipping
		assert.False(t, SnapshotsEqual(SnapshotAll([]Order{a, b}), SnapshotAll([]Order{a, b2})))
	})

	t.Run("Claim change detected", func(t *testing.T) {
		b2 := b
		b2.ShipperID = intPtr(8)
		assert.False(t, SnapshotsEqual(SnapshotAll([]Order{a, b}), SnapshotAll([]Order{a, b2})))
	})

	t.Run("Length mismatch", func(t *testing.T) {
		assert.False(t, SnapshotsEqual(SnapshotAll([]Order{a}), SnapshotAll([]Order{a, b})))
	})

	t.Run("Same instant in different locations", func(t *testing.T) {
		inUTC := Order{ID: 3, Status: StatusPending, CreatedAt: created}
		inLocal := inUTC
		inLocal.CreatedAt = created.In(time.FixedZone("ICT", 7*3600))
		assert.True(t, SnapshotsEqual(SnapshotAll([]Order{inUTC}), SnapshotAll([]Order{inLocal})))
	})
}
