package dto

import "time"

type VitaminRequest struct {
	VitaminName string     `json:"vitamin_name" validate:"required,max=255"`
	Status      string     `json:"status" validate:"vitamin_status"`
	Date        *time.Time `json:"date"`
}

type UpdateVitaminRequest struct {
	VitaminName *string    `json:"vitamin_name" validate:"omitempty,min=1,max=255"`
	Status      *string    `json:"status" validate:"omitempty,vitamin_status"`
	Date        *time.Time `json:"date"`
}

type VitaminResponse struct {
	ID          int        `json:"id"`
	PatientID   int        `json:"patient_id"`
	VitaminName string     `json:"vitamin_name"`
	Status      string     `json:"status"`
	Date        *time.Time `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
}
