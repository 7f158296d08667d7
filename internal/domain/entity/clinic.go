package entity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is the owner of a schedule and its rooms
type Clinic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Rooms []Room `gorm:"foreignKey:ClinicID" json:"rooms,omitempty"`
}

func (Clinic) TableName() string {
	return "clinics"
}
