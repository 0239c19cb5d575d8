package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"
	"healthmon-backend/internal/repository"
	"healthmon-backend/internal/testutil"

	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)

type fixture struct {
	db       *gorm.DB
	patients domainRepo.PatientRepository
	checkups domainRepo.CheckupRepository
	vitamins domainRepo.VitaminRepository
	alerts   domainRepo.AlertRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		db:       testutil.NewTestDB(t),
		patients: repository.NewPatientRepository(),
		checkups: repository.NewCheckupRepository(),
		vitamins: repository.NewVitaminRepository(),
		alerts:   repository.NewAlertRepository(),
	}
}

func (f *fixture) patientUsecase() *patientUsecase {
	uc := NewPatientUsecase(f.db, testutil.NewLogger(), f.patients, f.checkups).(*patientUsecase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) seedPatient(t *testing.T, name string, category entity.Category) *entity.Patient {
	t.Helper()
	p := &entity.Patient{
		Name:     name,
		Age:      "30 tahun",
		Gender:   entity.GenderFemale,
		Category: category,
		Status:   entity.PatientStatusStable,
	}
	if category.IsInfant() {
		p.Age = "8 bulan"
	}
	if err := f.patients.Create(context.Background(), f.db, p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// failingCheckupRepo fails every insert.
type failingCheckupRepo struct {
	domainRepo.CheckupRepository
}

var errInjected = errors.New("injected checkup failure")

func (failingCheckupRepo) Create(context.Context, *gorm.DB, *entity.Checkup) error {
	return errInjected
}
