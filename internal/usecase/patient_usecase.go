package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"healthmon-backend/internal/converter"
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound       = errors.New("patient not found")
	ErrNIKAlreadyExists      = errors.New("NIK already registered")
	ErrChildNIKAlreadyExists = errors.New("child NIK already registered")
	ErrAgeRequired           = errors.New("age is required unless a Bayi birth date is given")
	ErrNameRequired          = errors.New("name is required")
)

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientDetailResponse, error)
	GetByID(ctx context.Context, id int) (*dto.PatientDetailResponse, error)
	GetAll(ctx context.Context, category string) ([]dto.PatientResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id int) error
}

type patientUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	checkupRepo repository.CheckupRepository
	now         func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	checkupRepo repository.CheckupRepository,
) PatientUsecase {
	return &patientUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		checkupRepo: checkupRepo,
		now:         time.Now,
	}
}

// Create stores the patient and its optional first checkup in one transaction.
func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientDetailResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	category := entity.Category(req.Category)
	if !category.IsValid() {
		return nil, entity.ErrInvalidCategory
	}
	gender := entity.Gender(req.Gender)
	if !gender.IsValid() {
		return nil, entity.ErrInvalidGender
	}

	var birthDate *time.Time
	if strings.TrimSpace(req.BirthDate) != "" {
		parsed, err := entity.ParseBirthDate(req.BirthDate)
		if err != nil {
			return nil, err
		}
		birthDate = &parsed
	}

	age := strings.TrimSpace(req.Age)
	if age == "" && category.IsInfant() && birthDate != nil {
		label, err := entity.AgeLabel(*birthDate, u.now())
		if err != nil {
			return nil, err
		}
		age = label
	}
	if age == "" {
		return nil, ErrAgeRequired
	}

	status := entity.PatientStatus(req.Status)
	if status == "" {
		status = entity.PatientStatusStable
	}

	patient := &entity.Patient{
		Name:             strings.TrimSpace(req.Name),
		Age:              age,
		Gender:           gender,
		Category:         category,
		NIK:              optional(req.NIK),
		GuardianName:     optional(req.GuardianName),
		MotherNIK:        optional(req.MotherNIK),
		ChildNIK:         optional(req.ChildNIK),
		FamilyCardNumber: optional(req.FamilyCardNumber),
		BirthDate:        birthDate,
		Status:           status,
	}

	var checkup *entity.Checkup
	if req.Checkup != nil {
		date := u.now()
		if req.Checkup.Date != nil {
			date = *req.Checkup.Date
		}
		checkup = &entity.Checkup{Date: date}
		converter.CheckupRequestToPayload(req.Checkup, category).Apply(checkup)
		patient.LastCheckupDate = &date
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, patientConflict(err)
	}

	if checkup != nil {
		checkup.PatientID = patient.ID
		if err := u.checkupRepo.Create(ctx, tx, checkup); err != nil {
			u.log.Warnf("Failed to create initial checkup: %+v", err)
			return nil, err
		}
		patient.Checkups = []entity.Checkup{*checkup}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient %d registered (%s)", patient.ID, patient.Category)

	return converter.PatientToDetailResponse(patient), nil
}

func (u *patientUsecase) GetByID(ctx context.Context, id int) (*dto.PatientDetailResponse, error) {
	patient, err := u.patientRepo.FindDetail(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToDetailResponse(patient), nil
}

// GetAll lists patients newest first, optionally filtered by category.
func (u *patientUsecase) GetAll(ctx context.Context, category string) ([]dto.PatientResponse, error) {
	if category != "" && !entity.Category(category).IsValid() {
		return nil, entity.ErrInvalidCategory
	}

	patients, err := u.patientRepo.FindAll(ctx, u.db, entity.Category(category))
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return converter.PatientsToResponses(patients), nil
}

// Update applies the provided fields. An empty string clears a nullable field.
// Changing a Bayi birth date without an explicit age re-derives the age label.
func (u *patientUsecase) Update(ctx context.Context, id int, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.Name != nil {
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil && strings.TrimSpace(*req.Age) != "" {
		patient.Age = strings.TrimSpace(*req.Age)
	}
	if req.Gender != nil {
		patient.Gender = entity.Gender(*req.Gender)
	}
	if req.Status != nil {
		patient.Status = entity.PatientStatus(*req.Status)
	}
	if req.NIK != nil {
		patient.NIK = optional(*req.NIK)
	}
	if req.GuardianName != nil {
		patient.GuardianName = optional(*req.GuardianName)
	}
	if req.MotherNIK != nil {
		patient.MotherNIK = optional(*req.MotherNIK)
	}
	if req.ChildNIK != nil {
		patient.ChildNIK = optional(*req.ChildNIK)
	}
	if req.FamilyCardNumber != nil {
		patient.FamilyCardNumber = optional(*req.FamilyCardNumber)
	}
	if req.BirthDate != nil {
		if strings.TrimSpace(*req.BirthDate) == "" {
			patient.BirthDate = nil
		} else {
			parsed, err := entity.ParseBirthDate(*req.BirthDate)
			if err != nil {
				return nil, err
			}
			patient.BirthDate = &parsed
			if patient.IsInfant() && req.Age == nil {
				label, err := entity.AgeLabel(parsed, u.now())
				if err != nil {
					return nil, err
				}
				patient.Age = label
			}
		}
	}

	if patient.Name == "" {
		return nil, ErrNameRequired
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, patientConflict(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// Delete removes the patient and, through the store's cascade, every child record.
func (u *patientUsecase) Delete(ctx context.Context, id int) error {
	affected, err := u.patientRepo.Delete(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	u.log.Infof("Patient %d deleted", id)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
