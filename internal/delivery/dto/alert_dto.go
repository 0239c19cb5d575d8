package dto

import "time"

type AlertRequest struct {
	AlertType   string `json:"alert_type" validate:"required,alert_type"`
	Description string `json:"description" validate:"required"`
}

type AlertResponse struct {
	ID          int             `json:"id"`
	PatientID   int             `json:"patient_id"`
	AlertType   string          `json:"alert_type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	Patient     *PatientSummary `json:"patient,omitempty"`
}

type StatsResponse struct {
	TotalPatients int64 `json:"total_patients"`
	TotalBabies   int64 `json:"total_babies"`
	TotalAdults   int64 `json:"total_adults"`
	TotalElders   int64 `json:"total_elders"`
	ActiveAlerts  int64 `json:"active_alerts"`
}
