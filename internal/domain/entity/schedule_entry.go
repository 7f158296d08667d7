package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry is the persisted form of one on call or visit.
// Position keeps the snapshot order.
// ZoneName/ZoneOffset and EndZoneName/EndZoneOffset keep the zone each
// end was booked in.
type ScheduleEntry struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Position       int       `gorm:"not null" json:"position"`
	DoctorID       uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Specialization string    `gorm:"type:varchar(50);not null" json:"specialization"`
	RoomName       string    `gorm:"type:varchar(50);not null" json:"room_name"`
	PatientName    *string   `gorm:"type:varchar(255)" json:"patient_name,omitempty"`
	StartsAt       time.Time `gorm:"type:timestamptz;not null" json:"starts_at"`
	EndsAt         time.Time `gorm:"type:timestamptz;not null" json:"ends_at"`
	ZoneName       string    `gorm:"type:varchar(64);not null" json:"zone_name"`
	ZoneOffset     int       `gorm:"not null" json:"zone_offset"`
	EndZoneName    string    `gorm:"type:varchar(64);not null" json:"end_zone_name"`
	EndZoneOffset  int       `gorm:"not null" json:"end_zone_offset"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}

// IsVisit checks if a patient is attached
func (e *ScheduleEntry) IsVisit() bool {
	return e.PatientName != nil
}
