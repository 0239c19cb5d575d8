package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrCheckupNotFound      = errors.New("checkup not found")
	ErrCheckupShapeMismatch = errors.New("checkup fields do not match patient category")
)

type CheckupUsecase interface {
	// Record appends a checkup built from an already typed payload.
	Record(ctx context.Context, patientID int, payload entity.CheckupPayload, date *time.Time) (*dto.RecordCheckupResponse, error)
	RecordRequest(ctx context.Context, patientID int, req *dto.CheckupRequest) (*dto.RecordCheckupResponse, error)
	// RecordCommand parses a pipe-delimited payload against the patient's category.
	RecordCommand(ctx context.Context, patientID int, raw string) (*dto.RecordCheckupResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateCheckupRequest) (*dto.CheckupResponse, error)
}

type checkupUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	checkupRepo repository.CheckupRepository
	now         func() time.Time
}

func NewCheckupUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	checkupRepo repository.CheckupRepository,
) CheckupUsecase {
	return &checkupUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		checkupRepo: checkupRepo,
		now:         time.Now,
	}
}

func (u *checkupUsecase) Record(ctx context.Context, patientID int, payload entity.CheckupPayload, date *time.Time) (*dto.RecordCheckupResponse, error) {
	return u.withPatient(ctx, patientID, func(tx *gorm.DB, patient *entity.Patient) (*dto.RecordCheckupResponse, error) {
		if !payload.Fits(patient.Category) {
			return nil, fmt.Errorf("%w: patient %d is %s", ErrCheckupShapeMismatch, patient.ID, patient.Category)
		}
		return u.record(ctx, tx, patient, payload, date)
	})
}

func (u *checkupUsecase) RecordRequest(ctx context.Context, patientID int, req *dto.CheckupRequest) (*dto.RecordCheckupResponse, error) {
	return u.withPatient(ctx, patientID, func(tx *gorm.DB, patient *entity.Patient) (*dto.RecordCheckupResponse, error) {
		payload := converter.CheckupRequestToPayload(req, patient.Category)
		return u.record(ctx, tx, patient, payload, req.Date)
	})
}

func (u *checkupUsecase) RecordCommand(ctx context.Context, patientID int, raw string) (*dto.RecordCheckupResponse, error) {
	return u.withPatient(ctx, patientID, func(tx *gorm.DB, patient *entity.Patient) (*dto.RecordCheckupResponse, error) {
		payload, err := entity.ParseCheckupCommand(patient.Category, raw)
		if err != nil {
			return nil, err
		}
		return u.record(ctx, tx, patient, payload, nil)
	})
}

// withPatient resolves the patient inside a transaction before anything is
// written, so an unknown id never produces a partial insert.
func (u *checkupUsecase) withPatient(
	ctx context.Context,
	patientID int,
	fn func(tx *gorm.DB, patient *entity.Patient) (*dto.RecordCheckupResponse, error),
) (*dto.RecordCheckupResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	result, err := fn(tx, patient)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

func (u *checkupUsecase) record(ctx context.Context, tx *gorm.DB, patient *entity.Patient, payload entity.CheckupPayload, date *time.Time) (*dto.RecordCheckupResponse, error) {
	checkupDate := u.now()
	if date != nil {
		checkupDate = *date
	}

	checkup := &entity.Checkup{
		PatientID: patient.ID,
		Date:      checkupDate,
	}
	payload.Apply(checkup)

	if err := u.checkupRepo.Create(ctx, tx, checkup); err != nil {
		u.log.Warnf("Failed to create checkup: %+v", err)
		return nil, err
	}

	if err := u.patientRepo.UpdateLastCheckupDate(ctx, tx, patient.ID, checkupDate); err != nil {
		u.log.Warnf("Failed to update last checkup date: %+v", err)
		return nil, err
	}

	return &dto.RecordCheckupResponse{
		Checkup: *converter.CheckupToResponse(checkup),
		Patient: *converter.PatientToSummary(patient),
	}, nil
}

func (u *checkupUsecase) Update(ctx context.Context, id int, req *dto.UpdateCheckupRequest) (*dto.CheckupResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	checkup, err := u.checkupRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find checkup: %+v", err)
		return nil, err
	}
	if checkup == nil {
		return nil, ErrCheckupNotFound
	}

	if req.Date != nil {
		checkup.Date = *req.Date
	}
	if req.Weight != nil {
		checkup.Weight = converter.FloatToNullDecimal(req.Weight)
	}
	if req.Height != nil {
		checkup.Height = converter.FloatToNullDecimal(req.Height)
	}
	if req.HeadCircumference != nil {
		checkup.HeadCircumference = converter.FloatToNullDecimal(req.HeadCircumference)
	}
	if req.BloodPressure != nil {
		bp := strings.TrimSpace(*req.BloodPressure)
		if bp == "" {
			checkup.BloodPressure = nil
		} else {
			checkup.BloodPressure = &bp
		}
		checkup.Systolic, checkup.Diastolic = entity.ParseBloodPressure(bp)
	}
	if req.BloodSugar != nil {
		checkup.BloodSugar = req.BloodSugar
	}

	if err := u.checkupRepo.Update(ctx, tx, checkup); err != nil {
		u.log.Warnf("Failed to update checkup: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CheckupToResponse(checkup), nil
}
