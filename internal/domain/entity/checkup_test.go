package entity

import (
	"errors"
	"testing"
)

func TestParseCheckupCommandInfant(t *testing.T) {
	payload, err := ParseCheckupCommand(CategoryBayi, "5.2|55|42")
	if err != nil {
		t.Fatalf("ParseCheckupCommand error: %v", err)
	}
	baby, ok := payload.(BabyCheckup)
	if !ok {
		t.Fatalf("payload type = %T, want BabyCheckup", payload)
	}
	if baby.Weight.String() != "5.2" || baby.Height.String() != "55" {
		t.Errorf("weight/height = %s/%s, want 5.2/55", baby.Weight, baby.Height)
	}
	if !baby.HeadCircumference.Valid || baby.HeadCircumference.Decimal.String() != "42" {
		t.Errorf("head circumference = %+v, want 42", baby.HeadCircumference)
	}

	var c Checkup
	payload.Apply(&c)
	if c.BloodPressure != nil || c.BloodSugar != nil {
		t.Error("infant checkup must not carry adult fields")
	}
}

func TestParseCheckupCommandAdult(t *testing.T) {
	payload, err := ParseCheckupCommand(CategoryDewasa, "65|165|120/80|95")
	if err != nil {
		t.Fatalf("ParseCheckupCommand error: %v", err)
	}
	adult, ok := payload.(AdultCheckup)
	if !ok {
		t.Fatalf("payload type = %T, want AdultCheckup", payload)
	}
	if adult.Systolic == nil || *adult.Systolic != 120 || adult.Diastolic == nil || *adult.Diastolic != 80 {
		t.Errorf("blood pressure = %v/%v, want 120/80", adult.Systolic, adult.Diastolic)
	}
	if adult.BloodSugar == nil || *adult.BloodSugar != 95 {
		t.Errorf("blood sugar = %v, want 95", adult.BloodSugar)
	}
	if !payload.Fits(CategoryLansia) || payload.Fits(CategoryBayi) {
		t.Error("adult payload should fit Lansia and not Bayi")
	}
}

func TestParseCheckupCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		raw      string
		want     error
	}{
		{"adult with two fields", CategoryDewasa, "65|165", ErrIncompleteCheckup},
		{"infant with two fields", CategoryBayi, "5.2|55", ErrIncompleteCheckup},
		{"weight not numeric", CategoryDewasa, "abc|165|120/80|95", ErrInvalidMeasurement},
		{"height not numeric", CategoryBayi, "5|x|40", ErrInvalidMeasurement},
		{"negative weight", CategoryBayi, "-5|50|40", ErrInvalidMeasurement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCheckupCommand(tt.category, tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseCheckupCommandLenientOptionalFields(t *testing.T) {
	payload, err := ParseCheckupCommand(CategoryLansia, "60|150|tinggi|n/a")
	if err != nil {
		t.Fatalf("ParseCheckupCommand error: %v", err)
	}
	adult := payload.(AdultCheckup)
	if adult.Systolic != nil || adult.BloodSugar != nil {
		t.Errorf("unparseable optional fields should be nil, got %v %v", adult.Systolic, adult.BloodSugar)
	}
	if adult.BloodPressure != "tinggi" {
		t.Errorf("raw blood pressure = %q, want kept as text", adult.BloodPressure)
	}
}
