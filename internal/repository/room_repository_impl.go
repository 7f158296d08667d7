package repository

import (
	"clinic-schedule/internal/domain/entity"
	domainRepo "clinic-schedule/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roomRepository struct{}

func NewRoomRepository() domainRepo.RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) Create(db *gorm.DB, room *entity.Room) error {
	return db.Create(room).Error
}

func (r *roomRepository) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.Room, error) {
	var rooms []entity.Room
	err := db.Where("clinic_id = ?", clinicID).Order("name ASC").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) ExistsByName(db *gorm.DB, clinicID uuid.UUID, name string) (bool, error) {
	var count int64
	err := db.Model(&entity.Room{}).Where("clinic_id = ? AND name = ?", clinicID, name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
