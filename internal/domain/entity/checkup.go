package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrIncompleteCheckup  = errors.New("incomplete checkup data")
	ErrInvalidMeasurement = errors.New("weight and height must be numbers")
)

const (
	InfantCheckupFormat = "berat|tinggi|lingkar_kepala"
	AdultCheckupFormat  = "berat|tinggi|tekanan_darah|gula_darah"
)

// Checkup is one vitals measurement event. Head circumference applies to
// infants; blood pressure and blood sugar to everyone else.
type Checkup struct {
	ID                int                 `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID         int                 `gorm:"not null;index" json:"patient_id"`
	Date              time.Time           `gorm:"not null;index" json:"date"`
	Weight            decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"weight"`
	Height            decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"height"`
	HeadCircumference decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"head_circumference"`
	BloodPressure     *string             `gorm:"type:varchar(20)" json:"blood_pressure"`
	Systolic          *int                `json:"blood_pressure_systolic"`
	Diastolic         *int                `json:"blood_pressure_diastolic"`
	BloodSugar        *int                `json:"blood_sugar"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
}

func (Checkup) TableName() string {
	return "checkups"
}

// CheckupPayload is the category-dependent body of a checkup: BabyCheckup
// for infants, AdultCheckup for everyone else.
type CheckupPayload interface {
	// Apply copies the measurements onto a checkup row.
	Apply(c *Checkup)
	// Fits reports whether the payload shape matches the patient category.
	Fits(category Category) bool
}

type BabyCheckup struct {
	Weight            decimal.Decimal
	Height            decimal.Decimal
	HeadCircumference decimal.NullDecimal
}

func (b BabyCheckup) Apply(c *Checkup) {
	c.Weight = decimal.NewNullDecimal(b.Weight)
	c.Height = decimal.NewNullDecimal(b.Height)
	c.HeadCircumference = b.HeadCircumference
}

func (BabyCheckup) Fits(category Category) bool {
	return category.IsInfant()
}

type AdultCheckup struct {
	Weight        decimal.Decimal
	Height        decimal.Decimal
	BloodPressure string
	Systolic      *int
	Diastolic     *int
	BloodSugar    *int
}

func (a AdultCheckup) Apply(c *Checkup) {
	c.Weight = decimal.NewNullDecimal(a.Weight)
	c.Height = decimal.NewNullDecimal(a.Height)
	if a.BloodPressure != "" {
		bp := a.BloodPressure
		c.BloodPressure = &bp
	}
	c.Systolic = a.Systolic
	c.Diastolic = a.Diastolic
	c.BloodSugar = a.BloodSugar
}

func (AdultCheckup) Fits(category Category) bool {
	return !category.IsInfant()
}

// ParseCheckupCommand parses a pipe-delimited payload for the given category:
// weight|height|head_circumference for infants and
// weight|height|blood_pressure|blood_sugar otherwise. Extra fields are ignored.
func ParseCheckupCommand(category Category, raw string) (CheckupPayload, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if category.IsInfant() {
		if len(parts) < 3 {
			return nil, fmt.Errorf("%w for category %s, format: %s", ErrIncompleteCheckup, category, InfantCheckupFormat)
		}
		weight, height, err := parseWeightHeight(parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		return BabyCheckup{
			Weight:            weight,
			Height:            height,
			HeadCircumference: parseOptionalDecimal(parts[2]),
		}, nil
	}

	if len(parts) < 4 {
		return nil, fmt.Errorf("%w for category %s, format: %s", ErrIncompleteCheckup, category, AdultCheckupFormat)
	}
	weight, height, err := parseWeightHeight(parts[0], parts[1])
	if err != nil {
		return nil, err
	}
	systolic, diastolic := ParseBloodPressure(parts[2])
	return AdultCheckup{
		Weight:        weight,
		Height:        height,
		BloodPressure: parts[2],
		Systolic:      systolic,
		Diastolic:     diastolic,
		BloodSugar:    parseOptionalInt(parts[3]),
	}, nil
}

// ParseBloodPressure splits "120/80" into systolic and diastolic values.
// Anything else yields nil for both.
func ParseBloodPressure(raw string) (*int, *int) {
	sys, dia, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok {
		return nil, nil
	}
	s, err := strconv.Atoi(strings.TrimSpace(sys))
	if err != nil {
		return nil, nil
	}
	d, err := strconv.Atoi(strings.TrimSpace(dia))
	if err != nil {
		return nil, nil
	}
	return &s, &d
}

func parseWeightHeight(w, h string) (decimal.Decimal, decimal.Decimal, error) {
	weight, err := decimal.NewFromString(strings.ReplaceAll(w, ",", "."))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: berat %q", ErrInvalidMeasurement, w)
	}
	height, err := decimal.NewFromString(strings.ReplaceAll(h, ",", "."))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: tinggi %q", ErrInvalidMeasurement, h)
	}
	if weight.IsNegative() || height.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: values must not be negative", ErrInvalidMeasurement)
	}
	return weight, height, nil
}

func parseOptionalDecimal(raw string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseOptionalInt mirrors parseInt semantics: leading digits are used and
// anything unparseable becomes nil.
func parseOptionalInt(raw string) *int {
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	v, err := strconv.Atoi(raw[:end])
	if err != nil {
		return nil
	}
	return &v
}
