package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/testutil"
)

func TestCreatePatientWithInitialCheckup(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()

	weight, height := 65.5, 170.0
	sugar := 95
	resp, err := uc.Create(context.Background(), &dto.CreatePatientRequest{
		Name:     "Budi",
		Age:      "45 tahun",
		Gender:   "Laki-laki",
		Category: "Dewasa",
		NIK:      "3201234567890123",
		Checkup: &dto.CheckupRequest{
			Weight:        &weight,
			Height:        &height,
			BloodPressure: "120/80",
			BloodSugar:    &sugar,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Status != string(entity.PatientStatusStable) {
		t.Fatalf("expected default status Stabil, got %s", resp.Status)
	}
	if len(resp.Checkups) != 1 || resp.Checkups[0].Systolic == nil || *resp.Checkups[0].Systolic != 120 {
		t.Fatalf("unexpected checkups: %+v", resp.Checkups)
	}
	if resp.LastCheckupDate == nil || !resp.LastCheckupDate.Equal(fixedNow) {
		t.Fatalf("expected last_checkup_date to be the checkup date, got %v", resp.LastCheckupDate)
	}
	if resp.Vitamins == nil || len(resp.Vitamins) != 0 {
		t.Fatalf("expected empty vitamins collection, got %v", resp.Vitamins)
	}
}

func TestCreatePatientIsAtomic(t *testing.T) {
	f := newFixture(t)
	uc := NewPatientUsecase(f.db, testutil.NewLogger(), f.patients, failingCheckupRepo{f.checkups})

	weight, height := 5.2, 55.0
	_, err := uc.Create(context.Background(), &dto.CreatePatientRequest{
		Name:      "Ani",
		Gender:    "Perempuan",
		Category:  "Bayi",
		BirthDate: "15/02/2024",
		Checkup:   &dto.CheckupRequest{Weight: &weight, Height: &height},
	})
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if n := f.count(t, &entity.Patient{}); n != 0 {
		t.Fatalf("expected no patient rows after failed checkup, got %d", n)
	}
}

func TestCreateBayiDerivesAge(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()

	birth := fixedNow.AddDate(0, -8, 0).Format("02/01/2006")
	resp, err := uc.Create(context.Background(), &dto.CreatePatientRequest{
		Name:      "Ani",
		Gender:    "Perempuan",
		Category:  "Bayi",
		BirthDate: birth,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Age != "8 bulan" {
		t.Fatalf("expected 8 bulan, got %q", resp.Age)
	}
	if resp.LastCheckupDate != nil {
		t.Fatalf("expected no last checkup date without a checkup")
	}
}

func TestCreatePatientRequiresAge(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()

	_, err := uc.Create(context.Background(), &dto.CreatePatientRequest{
		Name: "Budi", Gender: "Laki-laki", Category: "Lansia",
	})
	if !errors.Is(err, ErrAgeRequired) {
		t.Fatalf("expected ErrAgeRequired, got %v", err)
	}
}

func TestCreatePatientDuplicateNIK(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	ctx := context.Background()

	req := &dto.CreatePatientRequest{Name: "Budi", Age: "40 tahun", Gender: "Laki-laki", Category: "Dewasa", NIK: "3201234567890123"}
	if _, err := uc.Create(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}

	req.Name = "Budi Lain"
	if _, err := uc.Create(ctx, req); !errors.Is(err, ErrNIKAlreadyExists) {
		t.Fatalf("expected ErrNIKAlreadyExists, got %v", err)
	}

	baby := &dto.CreatePatientRequest{Name: "A", Age: "2 bulan", Gender: "Perempuan", Category: "Bayi", ChildNIK: "3201234567890999"}
	if _, err := uc.Create(ctx, baby); err != nil {
		t.Fatalf("baby create: %v", err)
	}
	if _, err := uc.Create(ctx, baby); !errors.Is(err, ErrChildNIKAlreadyExists) {
		t.Fatalf("expected ErrChildNIKAlreadyExists, got %v", err)
	}
}

func TestUpdatePatientPartial(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	p := f.seedPatient(t, "Siti", entity.CategoryDewasa)

	status := string(entity.PatientStatusAttention)
	empty := ""
	resp, err := uc.Update(context.Background(), p.ID, &dto.UpdatePatientRequest{Status: &status, NIK: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "Siti" || resp.Status != status || resp.NIK != nil {
		t.Fatalf("unexpected update result: %+v", resp)
	}

	if _, err := uc.Update(context.Background(), 999, &dto.UpdatePatientRequest{}); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestDeletePatientCascades(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	ctx := context.Background()
	p := f.seedPatient(t, "Siti", entity.CategoryLansia)

	for i := 0; i < 3; i++ {
		if err := f.checkups.Create(ctx, f.db, &entity.Checkup{PatientID: p.ID, Date: time.Now()}); err != nil {
			t.Fatalf("checkup: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := f.vitamins.Create(ctx, f.db, &entity.Vitamin{PatientID: p.ID, VitaminName: "Vit D", Status: entity.DoseStatusDone}); err != nil {
			t.Fatalf("vitamin: %v", err)
		}
	}

	if err := uc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := f.count(t, &entity.Checkup{}) + f.count(t, &entity.Vitamin{}); n != 0 {
		t.Fatalf("expected no orphaned child rows, got %d", n)
	}
	if err := uc.Delete(ctx, p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound on second delete, got %v", err)
	}
}

func TestGetAllFiltersByCategory(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	f.seedPatient(t, "Bayi 1", entity.CategoryBayi)
	f.seedPatient(t, "Dewasa 1", entity.CategoryDewasa)

	babies, err := uc.GetAll(context.Background(), "Bayi")
	if err != nil || len(babies) != 1 || babies[0].Name != "Bayi 1" {
		t.Fatalf("unexpected result: %+v (%v)", babies, err)
	}
	if _, err := uc.GetAll(context.Background(), "Remaja"); !errors.Is(err, entity.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
