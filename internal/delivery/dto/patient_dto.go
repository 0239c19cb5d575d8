package dto

import "time"

// Request DTOs

// CreatePatientRequest creates a patient with an optional first checkup.
// Age may be blank for Bayi when BirthDate is given; it is then derived.
type CreatePatientRequest struct {
	Name             string          `json:"name" validate:"required,max=255"`
	Age              string          `json:"age" validate:"max=50"`
	Gender           string          `json:"gender" validate:"required,gender"`
	Category         string          `json:"category" validate:"required,category"`
	NIK              string          `json:"nik" validate:"omitempty,nik"`
	GuardianName     string          `json:"guardian_name" validate:"max=255"`
	MotherNIK        string          `json:"mother_nik" validate:"omitempty,nik"`
	ChildNIK         string          `json:"child_nik" validate:"omitempty,nik"`
	FamilyCardNumber string          `json:"family_card_number" validate:"omitempty,nik"`
	BirthDate        string          `json:"birth_date"` // DD/MM/YYYY or YYYY-MM-DD
	Status           string          `json:"status" validate:"patient_status"`
	Checkup          *CheckupRequest `json:"checkup" validate:"omitempty"`
}

// UpdatePatientRequest is a partial update. Category cannot be changed.
type UpdatePatientRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	Age              *string `json:"age" validate:"omitempty,max=50"`
	Gender           *string `json:"gender" validate:"omitempty,gender"`
	NIK              *string `json:"nik" validate:"omitempty,nik"`
	GuardianName     *string `json:"guardian_name" validate:"omitempty,max=255"`
	MotherNIK        *string `json:"mother_nik" validate:"omitempty,nik"`
	ChildNIK         *string `json:"child_nik" validate:"omitempty,nik"`
	FamilyCardNumber *string `json:"family_card_number" validate:"omitempty,nik"`
	BirthDate        *string `json:"birth_date"`
	Status           *string `json:"status" validate:"omitempty,patient_status"`
}

// Response DTOs

type PatientResponse struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Age              string     `json:"age"`
	Gender           string     `json:"gender"`
	Category         string     `json:"category"`
	NIK              *string    `json:"nik"`
	GuardianName     *string    `json:"guardian_name"`
	MotherNIK        *string    `json:"mother_nik"`
	ChildNIK         *string    `json:"child_nik"`
	FamilyCardNumber *string    `json:"family_card_number"`
	BirthDate        *string    `json:"birth_date"`
	LastCheckupDate  *time.Time `json:"last_checkup_date"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PatientDetailResponse always carries the child collections, empty or not.
type PatientDetailResponse struct {
	PatientResponse
	Checkups      []CheckupResponse      `json:"checkups"`
	Vitamins      []VitaminResponse      `json:"vitamins"`
	Alerts        []AlertResponse        `json:"alerts"`
	Immunizations []ImmunizationResponse `json:"immunizations"`
	Milestones    []MilestoneResponse    `json:"milestones"`
}

type PatientSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ImmunizationResponse struct {
	ID          int        `json:"id"`
	PatientID   int        `json:"patient_id"`
	VaccineName string     `json:"vaccine_name"`
	Status      string     `json:"status"`
	Date        *time.Time `json:"date"`
}

type MilestoneResponse struct {
	ID            int        `json:"id"`
	PatientID     int        `json:"patient_id"`
	MilestoneName string     `json:"milestone_name"`
	Achieved      bool       `json:"achieved"`
	Date          *time.Time `json:"date"`
}
