package entity

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var ErrEmptyVitaminName = errors.New("vitamin name must not be empty")

// DoseStatus is shared by vitamins and immunizations.
type DoseStatus string

const (
	DoseStatusDone      DoseStatus = "Selesai"
	DoseStatusScheduled DoseStatus = "Terjadwal"
	DoseStatusDelayed   DoseStatus = "Tertunda"
)

func (s DoseStatus) IsValid() bool {
	switch s {
	case DoseStatusDone, DoseStatusScheduled, DoseStatusDelayed:
		return true
	}
	return false
}

type Vitamin struct {
	ID          int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   int        `gorm:"not null;index" json:"patient_id"`
	VitaminName string     `gorm:"type:varchar(255);not null" json:"vitamin_name"`
	Status      DoseStatus `gorm:"type:varchar(20);not null;default:'Terjadwal'" json:"status"`
	Date        *time.Time `json:"date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
}

func (Vitamin) TableName() string {
	return "vitamins"
}

// NormalizeVitaminName splits on whitespace, strips one trailing "." from
// each word, capitalizes the first letter, lowercases the rest and rejoins
// with single spaces: "vit. a" -> "Vit A", "VITAMIN   b" -> "Vitamin B".
func NormalizeVitaminName(raw string) (string, error) {
	words := strings.Fields(raw)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSuffix(w, ".")
		if w == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(w)
		out = append(out, string(unicode.ToUpper(first))+strings.ToLower(w[size:]))
	}
	if len(out) == 0 {
		return "", ErrEmptyVitaminName
	}
	return strings.Join(out, " "), nil
}
