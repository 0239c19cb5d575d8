package handler

import (
	"errors"
	"net/http"

	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/usecase"
	"healthmon-backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reportUsecase: reportUsecase}
}

func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get stats")
		return
	}

	response.Success(w, http.StatusOK, "Stats retrieved successfully", stats)
}

// ExportPatients streams the patient spreadsheet as an attachment
// @Summary Export patients
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param category query string false "Bayi, Dewasa, Lansia or Semua"
// @Success 200 {file} file
// @Failure 400 {object} response.Response
// @Router /export/patients [get]
func (h *ReportHandler) ExportPatients(w http.ResponseWriter, r *http.Request) {
	export, err := h.reportUsecase.ExportPatients(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCategory) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to export patients")
		return
	}

	response.Attachment(w, xlsxContentType, export.Filename, export.Content)
}
