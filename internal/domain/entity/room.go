package entity

import (
	"time"

	"github.com/google/uuid"
)

// Room is a bookable room registered for a clinic
type Room struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_clinic_name" json:"clinic_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_rooms_clinic_name" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Room) TableName() string {
	return "rooms"
}
