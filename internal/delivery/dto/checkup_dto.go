package dto

import "time"

// CheckupRequest records a checkup. Which optional fields apply depends on
// the patient's category: head_circumference for Bayi, blood_pressure and
// blood_sugar for everyone else.
type CheckupRequest struct {
	Date              *time.Time `json:"date"`
	Weight            *float64   `json:"weight" validate:"required,gte=0"`
	Height            *float64   `json:"height" validate:"required,gte=0"`
	HeadCircumference *float64   `json:"head_circumference" validate:"omitempty,gte=0"`
	BloodPressure     string     `json:"blood_pressure" validate:"max=20"`
	BloodSugar        *int       `json:"blood_sugar" validate:"omitempty,gte=0"`
}

type UpdateCheckupRequest struct {
	Date              *time.Time `json:"date"`
	Weight            *float64   `json:"weight" validate:"omitempty,gte=0"`
	Height            *float64   `json:"height" validate:"omitempty,gte=0"`
	HeadCircumference *float64   `json:"head_circumference" validate:"omitempty,gte=0"`
	BloodPressure     *string    `json:"blood_pressure" validate:"omitempty,max=20"`
	BloodSugar        *int       `json:"blood_sugar" validate:"omitempty,gte=0"`
}

type CheckupResponse struct {
	ID                int       `json:"id"`
	PatientID         int       `json:"patient_id"`
	Date              time.Time `json:"date"`
	Weight            *float64  `json:"weight"`
	Height            *float64  `json:"height"`
	HeadCircumference *float64  `json:"head_circumference"`
	BloodPressure     *string   `json:"blood_pressure"`
	Systolic          *int      `json:"blood_pressure_systolic"`
	Diastolic         *int      `json:"blood_pressure_diastolic"`
	BloodSugar        *int      `json:"blood_sugar"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordCheckupResponse restates which patient the checkup belongs to.
type RecordCheckupResponse struct {
	Checkup CheckupResponse `json:"checkup"`
	Patient PatientSummary  `json:"patient"`
}
