package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/domain/schedule"
	"clinic-schedule/internal/usecase"
	"clinic-schedule/pkg/response"
	"clinic-schedule/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.scheduleUsecase.GetSchedule(r.Context(), clinicID)
	if err != nil {
		writeScheduleError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", result)
}

func (h *ScheduleHandler) ScheduleOnCall(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.OnCallRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.scheduleUsecase.ScheduleOnCall(r.Context(), clinicID, &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to schedule on call")
		return
	}

	response.Success(w, http.StatusCreated, "On call scheduled successfully", result)
}

func (h *ScheduleHandler) ScheduleVisit(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.VisitRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.scheduleUsecase.ScheduleVisit(r.Context(), clinicID, &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to schedule visit")
		return
	}

	response.Success(w, http.StatusCreated, "Visit scheduled successfully", result)
}

func (h *ScheduleHandler) Erase(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := clinicIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.EraseRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.scheduleUsecase.Erase(r.Context(), clinicID, &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to erase schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule erased successfully", result)
}

func (h *ScheduleHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

// businessErrorStatus maps each rejection kind to its HTTP status and code
var businessErrorStatus = map[error]struct {
	status int
	code   string
}{
	schedule.ErrOnCallWithPatient:     {http.StatusBadRequest, "on_call_with_patient"},
	schedule.ErrNoPatient:             {http.StatusBadRequest, "no_patient"},
	schedule.ErrDateAlreadyTaken:      {http.StatusConflict, "date_already_taken"},
	schedule.ErrRoomAlreadyTaken:      {http.StatusConflict, "room_already_taken"},
	schedule.ErrRoomMismatch:          {http.StatusConflict, "room_mismatch"},
	schedule.ErrVisitAlreadyScheduled: {http.StatusConflict, "visit_already_scheduled"},
	schedule.ErrAlreadyAssigned:       {http.StatusConflict, "already_assigned"},
	schedule.ErrNoDoctorOnCall:        {http.StatusUnprocessableEntity, "no_doctor_on_call"},
	schedule.ErrNothingToErase:        {http.StatusNotFound, "nothing_to_erase"},
}

func writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	var be *schedule.BusinessError
	if errors.As(err, &be) {
		mapped, ok := businessErrorStatus[be.Kind]
		if !ok {
			mapped.status, mapped.code = http.StatusConflict, "rejected"
		}
		response.Error(w, mapped.status, be.Error(), response.ErrorDetail{
			Code:    mapped.code,
			Room:    be.Room,
			Patient: be.Patient,
		})
		return
	}

	switch {
	case errors.Is(err, schedule.ErrInvalidRange):
		response.Error(w, http.StatusBadRequest, "Start should be before end", response.ErrorDetail{Code: "invalid_range"})
	case errors.Is(err, usecase.ErrInvalidZone):
		response.Error(w, http.StatusBadRequest, "Unknown time zone", response.ErrorDetail{Code: "invalid_zone"})
	case errors.Is(err, usecase.ErrClinicNotFound):
		response.NotFound(w, "Clinic not found")
	default:
		response.InternalServerError(w, fallback)
	}
}

func clinicIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	clinicID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid clinic ID", nil)
		return uuid.Nil, false
	}
	return clinicID, true
}
