package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RoomCatalog lists the rooms a clinic may book.
type RoomCatalog interface {
	FindRooms(ctx context.Context, clinicID uuid.UUID) ([]Room, error)
}

// IDGenerator produces clinic identifiers.
type IDGenerator func() uuid.UUID

// Factory builds schedules seeded with the clinic's rooms.
type Factory struct {
	catalog RoomCatalog
	newID   IDGenerator
}

func NewFactory(catalog RoomCatalog, newID IDGenerator) *Factory {
	if newID == nil {
		newID = uuid.New
	}
	return &Factory{catalog: catalog, newID: newID}
}

// Create returns an empty schedule. A nil clinicID gets a freshly generated one.
func (f *Factory) Create(ctx context.Context, clinicID uuid.UUID) (*Schedule, error) {
	if clinicID == uuid.Nil {
		clinicID = f.newID()
	}
	rooms, err := f.catalog.FindRooms(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("find rooms for clinic %s: %w", clinicID, err)
	}
	return NewSchedule(clinicID, rooms), nil
}

// Restore rebuilds a schedule from a snapshot. Entries are loaded as they
// are and checked against the state invariants: no two entries share a room
// at overlapping times and no doctor has two overlapping visits. How a visit
// was carved out of on calls is not visible in the stored state, so it is
// not checked again.
func (f *Factory) Restore(ctx context.Context, snapshot Snapshot) (*Schedule, error) {
	rooms, err := f.catalog.FindRooms(ctx, snapshot.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("find rooms for clinic %s: %w", snapshot.ClinicID, err)
	}

	result := NewSchedule(snapshot.ClinicID, rooms)
	for _, entry := range snapshot.entries {
		if err := result.restore(entry); err != nil {
			return nil, fmt.Errorf("restore %s: %w", entry, err)
		}
	}
	return result, nil
}
