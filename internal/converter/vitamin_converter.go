package converter

import (
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
)

func VitaminToResponse(vitamin *entity.Vitamin) *dto.VitaminResponse {
	if vitamin == nil {
		return nil
	}

	return &dto.VitaminResponse{
		ID:          vitamin.ID,
		PatientID:   vitamin.PatientID,
		VitaminName: vitamin.VitaminName,
		Status:      string(vitamin.Status),
		Date:        vitamin.Date,
		CreatedAt:   vitamin.CreatedAt,
	}
}
