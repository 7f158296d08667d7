package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Schedule is the consistency boundary for one clinic's on calls and visits.
//
// It guarantees that:
//   - no two entries occupy the same room at overlapping times,
//   - every visit was carved out of a contiguous run of the same doctor's
//     on calls in the same room,
//   - a doctor never has two overlapping visits.
//
// Rejected operations leave the entries untouched. A Schedule is safe for
// concurrent use; mutations are serialized by an internal lock.
type Schedule struct {
	clinicID uuid.UUID
	rooms    map[Room]struct{}

	mu      sync.RWMutex
	entries map[entryKey]Entry
}

// NewSchedule creates an empty schedule for a clinic that may use the given rooms.
func NewSchedule(clinicID uuid.UUID, rooms []Room) *Schedule {
	registered := make(map[Room]struct{}, len(rooms))
	for _, room := range rooms {
		registered[room] = struct{}{}
	}
	return &Schedule{
		clinicID: clinicID,
		rooms:    registered,
		entries:  make(map[entryKey]Entry),
	}
}

func (s *Schedule) ClinicID() uuid.UUID {
	return s.clinicID
}

// Rooms returns the registered rooms ordered by name.
func (s *Schedule) Rooms() []Room {
	rooms := make([]Room, 0, len(s.rooms))
	for room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms
}

// ScheduleOnCall books a doctor in a room. The room must be free for the whole range.
func (s *Schedule) ScheduleOnCall(entry Entry) error {
	if patient, ok := entry.Patient(); ok {
		return onCallWithPatient(patient)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interferingRooms := make(map[Room]struct{})
	for _, existing := range s.entries {
		if RoomInterferes(existing, entry) {
			interferingRooms[existing.room] = struct{}{}
		}
	}
	if len(interferingRooms) > 0 {
		// Only checks that some other room is registered, not that it is free
		// at the requested time.
		for room := range s.rooms {
			if _, taken := interferingRooms[room]; !taken {
				return roomAlreadyTaken(entry.room)
			}
		}
		return dateAlreadyTaken()
	}

	s.entries[entry.key()] = entry
	return nil
}

// ScheduleVisit carves a visit out of the doctor's on calls. The on calls
// overlapping the visit must be in the visit's room, must not hold another
// visit, and must cover the visit without gaps.
func (s *Schedule) ScheduleVisit(entry Entry) error {
	if !entry.IsVisit() {
		return noPatient()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var backing []Entry
	for _, existing := range s.entries {
		if DoctorDateInterferes(existing, entry) {
			backing = append(backing, existing)
		}
	}
	if len(backing) == 0 {
		return noDoctorOnCall(msgNoCorrespondingOnCall)
	}
	sortEntries(backing)

	for _, existing := range backing {
		if existing.room != entry.room {
			return roomMismatch(existing.room)
		}
	}
	for _, existing := range backing {
		if patient, ok := existing.Patient(); ok {
			return visitAlreadyScheduled(patient)
		}
	}
	if !coversWithoutGaps(backing, entry.from, entry.to) {
		return noDoctorOnCall(msgOnCallsNotAligned)
	}

	replacement := []Entry{entry}
	for _, existing := range backing {
		replacement = append(replacement, existing.Split(entry.from, entry.to)...)
	}
	s.replace(backing, replacement)
	return nil
}

// Erase cuts [from, to) out of every entry, whatever the room or doctor.
func (s *Schedule) Erase(from, to time.Time) error {
	if !from.Before(to) {
		return fmt.Errorf("%w: %s should be less than %s", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected []Entry
	for _, existing := range s.entries {
		if existing.overlaps(from, to) {
			affected = append(affected, existing)
		}
	}
	if len(affected) == 0 {
		return nothingToErase()
	}

	var remainders []Entry
	for _, existing := range affected {
		remainders = append(remainders, existing.Split(from, to)...)
	}
	s.replace(affected, remainders)
	return nil
}

// Snapshot exports the current state.
func (s *Schedule) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return Snapshot{ClinicID: s.clinicID, entries: entries}
}

// restore inserts a stored entry, rejecting it when it breaks a state invariant.
func (s *Schedule) restore(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entry.key()
	if _, ok := s.entries[key]; ok {
		return nil
	}
	for _, existing := range s.entries {
		if RoomInterferes(existing, entry) {
			return roomAlreadyTaken(entry.room)
		}
		if existing.IsVisit() && entry.IsVisit() && DoctorDateInterferes(existing, entry) {
			patient, _ := existing.Patient()
			return visitAlreadyScheduled(patient)
		}
	}
	s.entries[key] = entry
	return nil
}

// replace must be called with the write lock held.
func (s *Schedule) replace(removed, added []Entry) {
	for _, entry := range removed {
		delete(s.entries, entry.key())
	}
	for _, entry := range added {
		s.entries[entry.key()] = entry
	}
}

// coversWithoutGaps expects entries ordered by start.
func coversWithoutGaps(entries []Entry, from, to time.Time) bool {
	start, end := entries[0].from, entries[0].to
	for _, entry := range entries[1:] {
		if !entry.from.Equal(end) {
			return false
		}
		end = entry.to
	}
	return !from.Before(start) && !end.Before(to)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.from.Equal(b.from) {
			return a.from.Before(b.from)
		}
		if a.room.Name != b.room.Name {
			return a.room.Name < b.room.Name
		}
		if a.doctor.ID != b.doctor.ID {
			return a.doctor.ID.String() < b.doctor.ID.String()
		}
		return a.to.Before(b.to)
	})
}
