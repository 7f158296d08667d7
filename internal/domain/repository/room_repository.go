package repository

import (
	"clinic-schedule/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(db *gorm.DB, room *entity.Room) error
	FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.Room, error)
	ExistsByName(db *gorm.DB, clinicID uuid.UUID, name string) (bool, error)
}
