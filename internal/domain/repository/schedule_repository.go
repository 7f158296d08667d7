package repository

import (
	"clinic-schedule/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleRepository stores the flattened entries of a clinic schedule.
// Entries come back ordered by position, the order they were saved in.
type ScheduleRepository interface {
	FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.ScheduleEntry, error)
	ReplaceEntries(db *gorm.DB, clinicID uuid.UUID, entries []entity.ScheduleEntry) error
}
