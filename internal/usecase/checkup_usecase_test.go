package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/testutil"

	"github.com/shopspring/decimal"
)

func newCheckupUsecase(f *fixture) *checkupUsecase {
	uc := NewCheckupUsecase(f.db, testutil.NewLogger(), f.patients, f.checkups).(*checkupUsecase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestRecordCommandAdult(t *testing.T) {
	f := newFixture(t)
	uc := newCheckupUsecase(f)
	p := f.seedPatient(t, "Budi", entity.CategoryDewasa)

	resp, err := uc.RecordCommand(context.Background(), p.ID, "65|165|120/80|95")
	if err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}
	if resp.Patient.ID != p.ID || resp.Patient.Name != "Budi" {
		t.Fatalf("unexpected patient summary: %+v", resp.Patient)
	}
	if resp.Checkup.BloodSugar == nil || *resp.Checkup.BloodSugar != 95 {
		t.Fatalf("unexpected blood sugar: %v", resp.Checkup.BloodSugar)
	}

	stored, err := f.patients.FindByID(context.Background(), f.db, p.ID)
	if err != nil || stored.LastCheckupDate == nil || !stored.LastCheckupDate.Equal(fixedNow) {
		t.Fatalf("expected last_checkup_date to be updated, got %+v (%v)", stored, err)
	}
}

func TestRecordCommandIncompleteDoesNotInsert(t *testing.T) {
	f := newFixture(t)
	uc := newCheckupUsecase(f)
	p := f.seedPatient(t, "Budi", entity.CategoryDewasa)

	_, err := uc.RecordCommand(context.Background(), p.ID, "65|165")
	if !errors.Is(err, entity.ErrIncompleteCheckup) {
		t.Fatalf("expected ErrIncompleteCheckup, got %v", err)
	}
	if n := f.count(t, &entity.Checkup{}); n != 0 {
		t.Fatalf("expected no checkup rows, got %d", n)
	}
}

func TestRecordCommandUnknownPatient(t *testing.T) {
	f := newFixture(t)
	uc := newCheckupUsecase(f)

	for _, raw := range []string{"5.2|55|42", "oops"} {
		_, err := uc.RecordCommand(context.Background(), 404, raw)
		if !errors.Is(err, ErrPatientNotFound) {
			t.Fatalf("expected ErrPatientNotFound for %q, got %v", raw, err)
		}
	}
	if n := f.count(t, &entity.Checkup{}); n != 0 {
		t.Fatalf("expected no checkup rows, got %d", n)
	}
}

func TestRecordRejectsMismatchedPayload(t *testing.T) {
	f := newFixture(t)
	uc := newCheckupUsecase(f)
	p := f.seedPatient(t, "Ani", entity.CategoryBayi)

	payload := entity.AdultCheckup{Weight: decimal.NewFromInt(60), Height: decimal.NewFromInt(160)}
	if _, err := uc.Record(context.Background(), p.ID, payload, nil); !errors.Is(err, ErrCheckupShapeMismatch) {
		t.Fatalf("expected ErrCheckupShapeMismatch, got %v", err)
	}

	baby := entity.BabyCheckup{Weight: decimal.RequireFromString("5.2"), Height: decimal.NewFromInt(55)}
	date := fixedNow.AddDate(0, 0, -1)
	resp, err := uc.Record(context.Background(), p.ID, baby, &date)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !resp.Checkup.Date.Equal(date) {
		t.Fatalf("expected supplied date, got %v", resp.Checkup.Date)
	}
}

func TestUpdateCheckup(t *testing.T) {
	f := newFixture(t)
	uc := newCheckupUsecase(f)
	p := f.seedPatient(t, "Budi", entity.CategoryLansia)

	created, err := uc.RecordCommand(context.Background(), p.ID, "70|160|130/85|100")
	if err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}

	bp := "140/90"
	resp, err := uc.Update(context.Background(), created.Checkup.ID, &dto.UpdateCheckupRequest{BloodPressure: &bp})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Systolic == nil || *resp.Systolic != 140 || resp.Diastolic == nil || *resp.Diastolic != 90 {
		t.Fatalf("expected parsed blood pressure, got %+v", resp)
	}
	if resp.Weight == nil || *resp.Weight != 70 {
		t.Fatalf("expected weight to be kept, got %v", resp.Weight)
	}

	if _, err := uc.Update(context.Background(), 999, &dto.UpdateCheckupRequest{}); !errors.Is(err, ErrCheckupNotFound) {
		t.Fatalf("expected ErrCheckupNotFound, got %v", err)
	}
}
