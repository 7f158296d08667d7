package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Specialization tags what kind of doctor is on call
type Specialization string

const (
	SpecializationSurgeon             Specialization = "surgeon"
	SpecializationCardiologist        Specialization = "cardiologist"
	SpecializationPediatrician        Specialization = "pediatrician"
	SpecializationGeneralPractitioner Specialization = "general_practitioner"
)

// Doctor identifies a doctor. Compared by value.
type Doctor struct {
	ID             uuid.UUID
	Specialization Specialization
}

// Room is a clinic room, identified by its name.
type Room struct {
	Name string
}

// Patient is identified by name.
type Patient struct {
	Name string
}

// Entry is a single booked slot in the half-open range [from, to).
// An entry with a patient is a visit, otherwise it is an on call.
// Entries are immutable; every change produces a new value.
type Entry struct {
	doctor  Doctor
	room    Room
	from    time.Time
	to      time.Time
	patient *Patient
}

// NewEntry builds an entry, rejecting ranges where from is not before to.
func NewEntry(doctor Doctor, room Room, from, to time.Time, patient *Patient) (Entry, error) {
	if !from.Before(to) {
		return Entry{}, fmt.Errorf("%w: %s should be less than %s", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	e := Entry{doctor: doctor, room: room, from: from, to: to}
	if patient != nil {
		p := *patient
		e.patient = &p
	}
	return e, nil
}

// NewOnCall builds an entry without a patient.
func NewOnCall(doctor Doctor, room Room, from, to time.Time) (Entry, error) {
	return NewEntry(doctor, room, from, to, nil)
}

// NewVisit builds an entry carrying the given patient.
func NewVisit(doctor Doctor, room Room, from, to time.Time, patient Patient) (Entry, error) {
	return NewEntry(doctor, room, from, to, &patient)
}

func (e Entry) Doctor() Doctor  { return e.doctor }
func (e Entry) Room() Room      { return e.room }
func (e Entry) From() time.Time { return e.from }
func (e Entry) To() time.Time   { return e.to }

// Patient returns the attached patient and whether there is one.
func (e Entry) Patient() (Patient, bool) {
	if e.patient == nil {
		return Patient{}, false
	}
	return *e.patient, true
}

// IsVisit reports whether a patient is attached.
func (e Entry) IsVisit() bool {
	return e.patient != nil
}

// Equal compares entries structurally. Timestamps are compared as instants.
func (e Entry) Equal(other Entry) bool {
	return e.key() == other.key()
}

// WithPatient returns a copy of the entry assigned to patient.
// Assigning a different patient to a visit fails with ErrAlreadyAssigned.
func (e Entry) WithPatient(patient Patient) (Entry, error) {
	if current, ok := e.Patient(); ok {
		if current == patient {
			return e, nil
		}
		return Entry{}, alreadyAssigned(current)
	}
	e.patient = &patient
	return e, nil
}

// WithoutPatient returns an on call copy of the entry.
func (e Entry) WithoutPatient() Entry {
	e.patient = nil
	return e
}

// Split removes [excludeFrom, excludeTo) from the entry and returns what is left.
// The result is empty when the exclusion covers the whole entry and holds the
// entry unchanged when the exclusion does not touch it.
func (e Entry) Split(excludeFrom, excludeTo time.Time) []Entry {
	if !e.overlaps(excludeFrom, excludeTo) {
		return []Entry{e}
	}
	var remainders []Entry
	if e.from.Before(excludeFrom) {
		left := e
		left.to = excludeFrom
		remainders = append(remainders, left)
	}
	if excludeTo.Before(e.to) {
		right := e
		right.from = excludeTo
		remainders = append(remainders, right)
	}
	return remainders
}

func (e Entry) String() string {
	kind := "on call"
	if p, ok := e.Patient(); ok {
		kind = "visit of " + p.Name
	}
	return fmt.Sprintf("%s [%s, %s) room %q doctor %s", kind, e.from.Format(time.RFC3339), e.to.Format(time.RFC3339), e.room.Name, e.doctor.ID)
}

// entryKey identifies an entry by instant. Unix seconds plus nanoseconds
// cover the whole time.Time range.
type entryKey struct {
	doctor     Doctor
	room       Room
	fromSec    int64
	fromNsec   int
	toSec      int64
	toNsec     int
	patient    string
	hasPatient bool
}

func (e Entry) key() entryKey {
	k := entryKey{
		doctor:   e.doctor,
		room:     e.room,
		fromSec:  e.from.Unix(),
		fromNsec: e.from.Nanosecond(),
		toSec:    e.to.Unix(),
		toNsec:   e.to.Nanosecond(),
	}
	if e.patient != nil {
		k.patient = e.patient.Name
		k.hasPatient = true
	}
	return k
}
