package entity

import "time"

type Immunization struct {
	ID          int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   int        `gorm:"not null;index" json:"patient_id"`
	VaccineName string     `gorm:"type:varchar(255);not null" json:"vaccine_name"`
	Status      DoseStatus `gorm:"type:varchar(20);not null;default:'Terjadwal'" json:"status"`
	Date        *time.Time `json:"date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
}

func (Immunization) TableName() string {
	return "immunizations"
}
