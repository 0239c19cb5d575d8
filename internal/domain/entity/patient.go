package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory  = errors.New("invalid category, use Bayi, Dewasa or Lansia")
	ErrInvalidGender    = errors.New("invalid gender, use Laki-laki or Perempuan")
	ErrInvalidBirthDate = errors.New("invalid birth date, use DD/MM/YYYY")
	ErrInvalidNIK       = errors.New("NIK must be 16 digits")
)

// Category is the age bracket of a patient. It is fixed at creation and
// decides which fields are collected and which checkup shape is expected.
type Category string

const (
	CategoryBayi   Category = "Bayi"
	CategoryDewasa Category = "Dewasa"
	CategoryLansia Category = "Lansia"

	// CategoryAnak only appears on rows imported from older spreadsheets.
	CategoryAnak Category = "Anak"
)

var Categories = []Category{CategoryBayi, CategoryDewasa, CategoryLansia}

func (c Category) IsValid() bool {
	switch c {
	case CategoryBayi, CategoryDewasa, CategoryLansia:
		return true
	}
	return false
}

// IsInfant reports whether checkups use the weight|height|head_circumference shape.
func (c Category) IsInfant() bool {
	return c == CategoryBayi || c == CategoryAnak
}

type Gender string

const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type PatientStatus string

const (
	PatientStatusStable    PatientStatus = "Stabil"
	PatientStatusAttention PatientStatus = "Perlu Perhatian"
	PatientStatusCritical  PatientStatus = "Kritis"
)

func (s PatientStatus) IsValid() bool {
	switch s {
	case PatientStatusStable, PatientStatusAttention, PatientStatusCritical:
		return true
	}
	return false
}

// Patient is the root record; every child record cascades from it.
type Patient struct {
	ID               int           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string        `gorm:"type:varchar(255);not null" json:"name"`
	Age              string        `gorm:"type:varchar(50);not null" json:"age"`
	Gender           Gender        `gorm:"type:varchar(20);not null" json:"gender"`
	Category         Category      `gorm:"type:varchar(20);not null;index" json:"category"`
	NIK              *string       `gorm:"column:nik;type:varchar(16);uniqueIndex" json:"nik"`
	GuardianName     *string       `gorm:"type:varchar(255)" json:"guardian_name"`
	MotherNIK        *string       `gorm:"column:mother_nik;type:varchar(16)" json:"mother_nik"`
	ChildNIK         *string       `gorm:"column:child_nik;type:varchar(16);uniqueIndex" json:"child_nik"`
	FamilyCardNumber *string       `gorm:"type:varchar(16)" json:"family_card_number"`
	BirthDate        *time.Time    `gorm:"type:date" json:"birth_date"`
	LastCheckupDate  *time.Time    `json:"last_checkup_date"`
	Status           PatientStatus `gorm:"type:varchar(20);not null;default:'Stabil';index" json:"status"`
	CreatedAt        time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Checkups      []Checkup      `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"checkups,omitempty"`
	Vitamins      []Vitamin      `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"vitamins,omitempty"`
	Alerts        []Alert        `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"alerts,omitempty"`
	Immunizations []Immunization `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"immunizations,omitempty"`
	Milestones    []Milestone    `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"milestones,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// IsInfant reports whether the patient is in the Bayi category.
func (p *Patient) IsInfant() bool {
	return p.Category.IsInfant()
}

// Escalate raises the status for a new alert. It never lowers it.
func (p *Patient) Escalate(alertType AlertType) {
	switch alertType {
	case AlertTypeCritical:
		p.Status = PatientStatusCritical
	case AlertTypeAttention:
		if p.Status != PatientStatusCritical {
			p.Status = PatientStatusAttention
		}
	}
}

// ParseBirthDate reads a day/month/year date such as "15/02/2023" or "5/2/2023".
func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2/1/2006", "2-1-2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, raw)
}

// AgeLabel renders the age between birthDate and now in whole calendar
// months: "8 bulan" below a year, "1 tahun 3 bulan" or "2 tahun" above.
func AgeLabel(birthDate, now time.Time) (string, error) {
	if birthDate.After(now) {
		return "", fmt.Errorf("%w: date is in the future", ErrInvalidBirthDate)
	}

	months := (now.Year()-birthDate.Year())*12 + int(now.Month()-birthDate.Month())
	if now.Day() < birthDate.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}

	if months < 12 {
		return fmt.Sprintf("%d bulan", months), nil
	}
	years, rest := months/12, months%12
	if rest == 0 {
		return fmt.Sprintf("%d tahun", years), nil
	}
	return fmt.Sprintf("%d tahun %d bulan", years, rest), nil
}

// ValidNIK reports whether s is a 16-digit identity number.
func ValidNIK(s string) bool {
	if len(s) != 16 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
