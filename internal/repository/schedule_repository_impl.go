package repository

import (
	"clinic-schedule/internal/domain/entity"
	domainRepo "clinic-schedule/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// insertBatchSize bounds the rows sent per INSERT when saving a schedule
const insertBatchSize = 200

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.ScheduleEntry, error) {
	var entries []entity.ScheduleEntry
	err := db.Where("clinic_id = ?", clinicID).Order("position ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceEntries swaps the stored entries of a clinic for the given ones.
// Callers run it inside a transaction so readers never see a half-written schedule.
func (r *scheduleRepository) ReplaceEntries(db *gorm.DB, clinicID uuid.UUID, entries []entity.ScheduleEntry) error {
	if err := db.Where("clinic_id = ?", clinicID).Delete(&entity.ScheduleEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].ClinicID = clinicID
	}
	return db.CreateInBatches(entries, insertBatchSize).Error
}
