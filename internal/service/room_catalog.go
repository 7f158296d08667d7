package service

import (
	"context"

	"clinic-schedule/internal/converter"
	"clinic-schedule/internal/domain/repository"
	"clinic-schedule/internal/domain/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomCatalog serves the rooms registered for a clinic to the schedule factory.
// Bind it to a transaction with WithTx so reads see uncommitted rooms.
type RoomCatalog struct {
	db       *gorm.DB
	roomRepo repository.RoomRepository
}

func NewRoomCatalog(db *gorm.DB, roomRepo repository.RoomRepository) *RoomCatalog {
	return &RoomCatalog{db: db, roomRepo: roomRepo}
}

func (c *RoomCatalog) WithTx(tx *gorm.DB) *RoomCatalog {
	return &RoomCatalog{db: tx, roomRepo: c.roomRepo}
}

func (c *RoomCatalog) FindRooms(ctx context.Context, clinicID uuid.UUID) ([]schedule.Room, error) {
	rooms, err := c.roomRepo.FindByClinicID(c.db.WithContext(ctx), clinicID)
	if err != nil {
		return nil, err
	}
	return converter.RoomsToDomain(rooms), nil
}
