package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateClinicRequest struct {
	Name  string   `json:"name" validate:"required,max=255"`
	Rooms []string `json:"rooms" validate:"omitempty,unique,dive,required,max=50"`
}

type RegisterRoomRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Response DTOs

type RoomResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ClinicResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Rooms     []RoomResponse `json:"rooms"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int              `json:"total"`
}
