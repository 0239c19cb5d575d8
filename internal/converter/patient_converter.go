package converter

import (
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	var birthDate *string
	if patient.BirthDate != nil {
		s := patient.BirthDate.Format(dateLayout)
		birthDate = &s
	}

	return &dto.PatientResponse{
		ID:               patient.ID,
		Name:             patient.Name,
		Age:              patient.Age,
		Gender:           string(patient.Gender),
		Category:         string(patient.Category),
		NIK:              patient.NIK,
		GuardianName:     patient.GuardianName,
		MotherNIK:        patient.MotherNIK,
		ChildNIK:         patient.ChildNIK,
		FamilyCardNumber: patient.FamilyCardNumber,
		BirthDate:        birthDate,
		LastCheckupDate:  patient.LastCheckupDate,
		Status:           string(patient.Status),
		CreatedAt:        patient.CreatedAt,
		UpdatedAt:        patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, *PatientToResponse(&patients[i]))
	}
	return responses
}

// PatientToDetailResponse includes every loaded child collection. Missing
// collections are rendered as empty lists.
func PatientToDetailResponse(patient *entity.Patient) *dto.PatientDetailResponse {
	if patient == nil {
		return nil
	}

	detail := &dto.PatientDetailResponse{
		PatientResponse: *PatientToResponse(patient),
		Checkups:        make([]dto.CheckupResponse, 0, len(patient.Checkups)),
		Vitamins:        make([]dto.VitaminResponse, 0, len(patient.Vitamins)),
		Alerts:          make([]dto.AlertResponse, 0, len(patient.Alerts)),
		Immunizations:   make([]dto.ImmunizationResponse, 0, len(patient.Immunizations)),
		Milestones:      make([]dto.MilestoneResponse, 0, len(patient.Milestones)),
	}

	for i := range patient.Checkups {
		detail.Checkups = append(detail.Checkups, *CheckupToResponse(&patient.Checkups[i]))
	}
	for i := range patient.Vitamins {
		detail.Vitamins = append(detail.Vitamins, *VitaminToResponse(&patient.Vitamins[i]))
	}
	for i := range patient.Alerts {
		detail.Alerts = append(detail.Alerts, *AlertToResponse(&patient.Alerts[i]))
	}
	for _, im := range patient.Immunizations {
		detail.Immunizations = append(detail.Immunizations, dto.ImmunizationResponse{
			ID:          im.ID,
			PatientID:   im.PatientID,
			VaccineName: im.VaccineName,
			Status:      string(im.Status),
			Date:        im.Date,
		})
	}
	for _, m := range patient.Milestones {
		detail.Milestones = append(detail.Milestones, dto.MilestoneResponse{
			ID:            m.ID,
			PatientID:     m.PatientID,
			MilestoneName: m.MilestoneName,
			Achieved:      m.Achieved,
			Date:          m.Date,
		})
	}

	return detail
}

func PatientToSummary(patient *entity.Patient) *dto.PatientSummary {
	if patient == nil {
		return nil
	}
	return &dto.PatientSummary{
		ID:       patient.ID,
		Name:     patient.Name,
		Category: string(patient.Category),
	}
}
