package schedule

import "time"

// RoomInterferes reports whether two entries occupy the same room at overlapping times.
func RoomInterferes(a, b Entry) bool {
	return a.room == b.room && a.overlaps(b.from, b.to)
}

// DoctorDateInterferes reports whether two entries keep the same doctor busy
// at overlapping times, whatever the room.
func DoctorDateInterferes(a, b Entry) bool {
	return a.doctor == b.doctor && a.overlaps(b.from, b.to)
}

// overlaps uses half-open ranges, so touching ranges do not overlap.
func (e Entry) overlaps(from, to time.Time) bool {
	return e.from.Before(to) && from.Before(e.to)
}
