package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/usecase"
	"clinic-schedule/pkg/response"
	"clinic-schedule/pkg/validator"
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.CreateClinic(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrRoomAlreadyRegistered) {
			response.Conflict(w, "Room already registered", nil)
			return
		}
		response.InternalServerError(w, "Failed to create clinic")
		return
	}

	response.Success(w, http.StatusCreated, "Clinic created successfully", clinic)
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	clinic, err := h.clinicUsecase.GetClinic(r.Context(), clinicID)
	if err != nil {
		if errors.Is(err, usecase.ErrClinicNotFound) {
			response.NotFound(w, "Clinic not found")
			return
		}
		response.InternalServerError(w, "Failed to get clinic")
		return
	}

	response.Success(w, http.StatusOK, "Clinic retrieved successfully", clinic)
}

func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicUsecase.ListClinics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get clinics")
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", clinics)
}

func (h *ClinicHandler) RegisterRoom(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.RegisterRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	room, err := h.clinicUsecase.RegisterRoom(r.Context(), clinicID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrClinicNotFound):
			response.NotFound(w, "Clinic not found")
		case errors.Is(err, usecase.ErrRoomAlreadyRegistered):
			response.Conflict(w, "Room already registered", nil)
		default:
			response.InternalServerError(w, "Failed to register room")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Room registered successfully", room)
}
