package converter

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/domain/schedule"

	"github.com/google/uuid"
)

// EntryToEntity flattens a schedule entry into a row at the given position
func EntryToEntity(clinicID uuid.UUID, position int, e schedule.Entry) entity.ScheduleEntry {
	_, offset := e.From().Zone()
	_, endOffset := e.To().Zone()
	record := entity.ScheduleEntry{
		ClinicID:       clinicID,
		Position:       position,
		DoctorID:       e.Doctor().ID,
		Specialization: string(e.Doctor().Specialization),
		RoomName:       e.Room().Name,
		StartsAt:       e.From(),
		EndsAt:         e.To(),
		ZoneName:       e.From().Location().String(),
		ZoneOffset:     offset,
		EndZoneName:    e.To().Location().String(),
		EndZoneOffset:  endOffset,
	}
	if patient, ok := e.Patient(); ok {
		name := patient.Name
		record.PatientName = &name
	}
	return record
}

// EntityToEntry rebuilds a schedule entry, putting each timestamp back in the zone it was booked in
func EntityToEntry(record *entity.ScheduleEntry) (schedule.Entry, error) {
	from := record.StartsAt.In(restoreZone(record.ZoneName, record.ZoneOffset, record.StartsAt))
	to := record.EndsAt.In(restoreZone(record.EndZoneName, record.EndZoneOffset, record.EndsAt))
	doctor := schedule.Doctor{
		ID:             record.DoctorID,
		Specialization: schedule.Specialization(record.Specialization),
	}

	var patient *schedule.Patient
	if record.PatientName != nil {
		patient = &schedule.Patient{Name: *record.PatientName}
	}

	entry, err := schedule.NewEntry(doctor, schedule.Room{Name: record.RoomName}, from, to, patient)
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("schedule entry %d: %w", record.ID, err)
	}
	return entry, nil
}

// SnapshotToEntities numbers the entries in snapshot order
func SnapshotToEntities(snapshot schedule.Snapshot) []entity.ScheduleEntry {
	entries := snapshot.Entries()
	records := make([]entity.ScheduleEntry, len(entries))
	for i, e := range entries {
		records[i] = EntryToEntity(snapshot.ClinicID, i, e)
	}
	return records
}

// EntitiesToSnapshot expects records ordered by position
func EntitiesToSnapshot(clinicID uuid.UUID, records []entity.ScheduleEntry) (schedule.Snapshot, error) {
	entries := make([]schedule.Entry, len(records))
	for i := range records {
		entry, err := EntityToEntry(&records[i])
		if err != nil {
			return schedule.Snapshot{}, err
		}
		entries[i] = entry
	}
	return schedule.NewSnapshot(clinicID, entries), nil
}

// EntryToResponse converts a schedule entry to ScheduleEntryResponse DTO
func EntryToResponse(e schedule.Entry) dto.ScheduleEntryResponse {
	response := dto.ScheduleEntryResponse{
		Kind:           dto.EntryKindOnCall,
		DoctorID:       e.Doctor().ID,
		Specialization: string(e.Doctor().Specialization),
		Room:           e.Room().Name,
		From:           e.From(),
		To:             e.To(),
	}
	if patient, ok := e.Patient(); ok {
		name := patient.Name
		response.Kind = dto.EntryKindVisit
		response.Patient = &name
	}
	return response
}

// ScheduleToResponse converts a Schedule to ScheduleResponse DTO
func ScheduleToResponse(s *schedule.Schedule) *dto.ScheduleResponse {
	if s == nil {
		return nil
	}

	snapshot := s.Snapshot()
	entries := snapshot.Entries()
	responses := make([]dto.ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = EntryToResponse(e)
	}

	rooms := s.Rooms()
	names := make([]string, len(rooms))
	for i, room := range rooms {
		names[i] = room.Name
	}

	return &dto.ScheduleResponse{
		ClinicID: snapshot.ClinicID,
		Rooms:    names,
		Entries:  responses,
		Total:    len(responses),
	}
}

// restoreZone prefers the named location when it still yields the stored
// offset at that instant, otherwise a fixed zone with the stored offset.
func restoreZone(name string, offset int, at time.Time) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			if _, actual := at.In(loc).Zone(); actual == offset {
				return loc
			}
		}
	}
	return time.FixedZone(name, offset)
}
