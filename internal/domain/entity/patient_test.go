package entity

import (
	"errors"
	"testing"
	"time"
)

func TestAgeLabel(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  string
	}{
		{"newborn", now.AddDate(0, 0, -3), "0 bulan"},
		{"eight months", now.AddDate(0, -8, 0), "8 bulan"},
		{"day not reached yet", time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC), "7 bulan"},
		{"exactly one year", now.AddDate(-1, 0, 0), "1 tahun"},
		{"years and months", now.AddDate(-2, -3, 0), "2 tahun 3 bulan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AgeLabel(tt.birth, now)
			if err != nil {
				t.Fatalf("AgeLabel error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AgeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAgeLabelRejectsFutureDate(t *testing.T) {
	now := time.Now()
	if _, err := AgeLabel(now.AddDate(0, 1, 0), now); !errors.Is(err, ErrInvalidBirthDate) {
		t.Fatalf("err = %v, want ErrInvalidBirthDate", err)
	}
}

func TestParseBirthDate(t *testing.T) {
	got, err := ParseBirthDate("15/02/2023")
	if err != nil {
		t.Fatalf("ParseBirthDate error: %v", err)
	}
	if got.Year() != 2023 || got.Month() != time.February || got.Day() != 15 {
		t.Errorf("ParseBirthDate = %v, want 2023-02-15", got)
	}

	if _, err := ParseBirthDate("5/2/2023"); err != nil {
		t.Errorf("single-digit day/month should parse: %v", err)
	}

	for _, bad := range []string{"", "kemarin", "31/02/2023", "2023/02/15"} {
		if _, err := ParseBirthDate(bad); !errors.Is(err, ErrInvalidBirthDate) {
			t.Errorf("ParseBirthDate(%q) err = %v, want ErrInvalidBirthDate", bad, err)
		}
	}
}

func TestValidNIK(t *testing.T) {
	if !ValidNIK("3201234567890001") {
		t.Error("16 digits should be valid")
	}
	for _, bad := range []string{"", "123", "320123456789000A", "32012345678900011"} {
		if ValidNIK(bad) {
			t.Errorf("ValidNIK(%q) = true, want false", bad)
		}
	}
}

func TestPatientEscalate(t *testing.T) {
	p := &Patient{Status: PatientStatusStable}
	p.Escalate(AlertTypeAttention)
	if p.Status != PatientStatusAttention {
		t.Fatalf("status = %q, want Perlu Perhatian", p.Status)
	}
	p.Escalate(AlertTypeCritical)
	if p.Status != PatientStatusCritical {
		t.Fatalf("status = %q, want Kritis", p.Status)
	}
	p.Escalate(AlertTypeAttention)
	if p.Status != PatientStatusCritical {
		t.Fatalf("attention alert must not lower Kritis, got %q", p.Status)
	}
}
