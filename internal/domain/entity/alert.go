package entity

import "time"

type AlertType string

const (
	AlertTypeCritical  AlertType = "Kritis"
	AlertTypeAttention AlertType = "Perhatian"
)

func (t AlertType) IsValid() bool {
	return t == AlertTypeCritical || t == AlertTypeAttention
}

// RecentAlertLimit caps the dashboard alert feed.
const RecentAlertLimit = 5

type Alert struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   int       `gorm:"not null;index" json:"patient_id"`
	AlertType   AlertType `gorm:"type:varchar(20);not null" json:"alert_type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
}

func (Alert) TableName() string {
	return "alerts"
}
