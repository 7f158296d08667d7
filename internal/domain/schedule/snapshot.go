package schedule

import "github.com/google/uuid"

// Snapshot is a read-only export of a schedule, used for persistence and transport.
type Snapshot struct {
	ClinicID uuid.UUID
	entries  []Entry
}

// NewSnapshot builds a snapshot from persisted entries, keeping their order.
func NewSnapshot(clinicID uuid.UUID, entries []Entry) Snapshot {
	return Snapshot{ClinicID: clinicID, entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of the entries.
func (s Snapshot) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

func (s Snapshot) Len() int {
	return len(s.entries)
}
