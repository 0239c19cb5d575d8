package converter

import (
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
)

func AlertToResponse(alert *entity.Alert) *dto.AlertResponse {
	if alert == nil {
		return nil
	}

	return &dto.AlertResponse{
		ID:          alert.ID,
		PatientID:   alert.PatientID,
		AlertType:   string(alert.AlertType),
		Description: alert.Description,
		CreatedAt:   alert.CreatedAt,
		Patient:     PatientToSummary(alert.Patient),
	}
}

func AlertsToResponses(alerts []entity.Alert) []dto.AlertResponse {
	responses := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, *AlertToResponse(&alerts[i]))
	}
	return responses
}
