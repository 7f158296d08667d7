package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type OnCallRequest struct {
	DoctorID       uuid.UUID `json:"doctor_id" validate:"required"`
	Specialization string    `json:"specialization" validate:"required,oneof=surgeon cardiologist pediatrician general_practitioner"`
	Room           string    `json:"room" validate:"required,max=50"`
	From           time.Time `json:"from" validate:"required"`
	To             time.Time `json:"to" validate:"required"`
	Zone           string    `json:"zone" validate:"omitempty,timezone"` // IANA name, e.g. Europe/Warsaw
}

type VisitRequest struct {
	DoctorID       uuid.UUID `json:"doctor_id" validate:"required"`
	Specialization string    `json:"specialization" validate:"required,oneof=surgeon cardiologist pediatrician general_practitioner"`
	Room           string    `json:"room" validate:"required,max=50"`
	Patient        string    `json:"patient" validate:"required,max=255"`
	From           time.Time `json:"from" validate:"required"`
	To             time.Time `json:"to" validate:"required"`
	Zone           string    `json:"zone" validate:"omitempty,timezone"`
}

type EraseRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required"`
	Zone string    `json:"zone" validate:"omitempty,timezone"`
}

// Response DTOs

const (
	EntryKindOnCall = "on_call"
	EntryKindVisit  = "visit"
)

type ScheduleEntryResponse struct {
	Kind           string    `json:"kind"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	Specialization string    `json:"specialization"`
	Room           string    `json:"room"`
	Patient        *string   `json:"patient,omitempty"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
}

type ScheduleResponse struct {
	ClinicID uuid.UUID               `json:"clinic_id"`
	Rooms    []string                `json:"rooms"`
	Entries  []ScheduleEntryResponse `json:"entries"`
	Total    int                     `json:"total"`
}
