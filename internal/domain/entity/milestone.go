package entity

import "time"

// Milestone is a developmental milestone for an infant.
type Milestone struct {
	ID            int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID     int        `gorm:"not null;index" json:"patient_id"`
	MilestoneName string     `gorm:"type:varchar(255);not null" json:"milestone_name"`
	Achieved      bool       `gorm:"not null;default:false" json:"achieved"`
	Date          *time.Time `json:"date"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
}

func (Milestone) TableName() string {
	return "milestones"
}
