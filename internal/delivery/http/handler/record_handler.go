package handler

import (
	"encoding/json"
	"net/http"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/usecase"
	"healthmon-backend/pkg/response"
	"healthmon-backend/pkg/validator"
)

// RecordHandler serves checkups, vitamins and alerts attached to a patient.
type RecordHandler struct {
	checkupUsecase usecase.CheckupUsecase
	vitaminUsecase usecase.VitaminUsecase
	alertUsecase   usecase.AlertUsecase
	validator      *validator.CustomValidator
}

func NewRecordHandler(
	checkupUsecase usecase.CheckupUsecase,
	vitaminUsecase usecase.VitaminUsecase,
	alertUsecase usecase.AlertUsecase,
	validator *validator.CustomValidator,
) *RecordHandler {
	return &RecordHandler{
		checkupUsecase: checkupUsecase,
		vitaminUsecase: vitaminUsecase,
		alertUsecase:   alertUsecase,
		validator:      validator,
	}
}

// CreateCheckup records a checkup and moves the patient's last checkup date
// @Summary Record checkup
// @Tags Checkups
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param request body dto.CheckupRequest true "Checkup"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/checkups [post]
func (h *RecordHandler) CreateCheckup(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.CheckupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.checkupUsecase.RecordRequest(r.Context(), patientID, &req)
	if err != nil {
		writePatientError(w, err, "Failed to record checkup")
		return
	}

	response.Success(w, http.StatusCreated, "Checkup recorded successfully", result)
}

func (h *RecordHandler) UpdateCheckup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid checkup ID")
		return
	}

	var req dto.UpdateCheckupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	checkup, err := h.checkupUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writePatientError(w, err, "Failed to update checkup")
		return
	}

	response.Success(w, http.StatusOK, "Checkup updated successfully", checkup)
}

func (h *RecordHandler) CreateVitamin(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.VitaminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vitamin, err := h.vitaminUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		writePatientError(w, err, "Failed to record vitamin")
		return
	}

	response.Success(w, http.StatusCreated, "Vitamin recorded successfully", vitamin)
}

func (h *RecordHandler) UpdateVitamin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid vitamin ID")
		return
	}

	var req dto.UpdateVitaminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vitamin, err := h.vitaminUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writePatientError(w, err, "Failed to update vitamin")
		return
	}

	response.Success(w, http.StatusOK, "Vitamin updated successfully", vitamin)
}

func (h *RecordHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	alert, err := h.alertUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		writePatientError(w, err, "Failed to create alert")
		return
	}

	response.Success(w, http.StatusCreated, "Alert created successfully", alert)
}

// GetRecentAlerts returns the dashboard feed, newest first
func (h *RecordHandler) GetRecentAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertUsecase.GetRecent(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get alerts")
		return
	}

	response.Success(w, http.StatusOK, "Alerts retrieved successfully", alerts)
}
