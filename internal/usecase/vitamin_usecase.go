package usecase

import (
	"context"
	"errors"
	"time"

	"healthmon-backend/internal/converter"
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrVitaminNotFound = errors.New("vitamin not found")

type VitaminUsecase interface {
	// RecordGiven notes that a vitamin was given today.
	RecordGiven(ctx context.Context, patientID int, name string) (*dto.VitaminResponse, error)
	Create(ctx context.Context, patientID int, req *dto.VitaminRequest) (*dto.VitaminResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateVitaminRequest) (*dto.VitaminResponse, error)
}

type vitaminUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	vitaminRepo repository.VitaminRepository
	now         func() time.Time
}

func NewVitaminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	vitaminRepo repository.VitaminRepository,
) VitaminUsecase {
	return &vitaminUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		vitaminRepo: vitaminRepo,
		now:         time.Now,
	}
}

func (u *vitaminUsecase) RecordGiven(ctx context.Context, patientID int, name string) (*dto.VitaminResponse, error) {
	now := u.now()
	return u.create(ctx, patientID, name, entity.DoseStatusDone, &now)
}

// Create is the dashboard path: status defaults to Terjadwal.
func (u *vitaminUsecase) Create(ctx context.Context, patientID int, req *dto.VitaminRequest) (*dto.VitaminResponse, error) {
	status := entity.DoseStatus(req.Status)
	if status == "" {
		status = entity.DoseStatusScheduled
	}
	return u.create(ctx, patientID, req.VitaminName, status, req.Date)
}

func (u *vitaminUsecase) create(ctx context.Context, patientID int, rawName string, status entity.DoseStatus, date *time.Time) (*dto.VitaminResponse, error) {
	name, err := entity.NormalizeVitaminName(rawName)
	if err != nil {
		return nil, err
	}

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

	vitamin := &entity.Vitamin{
		PatientID:   patient.ID,
		VitaminName: name,
		Status:      status,
		Date:        date,
	}
	if err := u.vitaminRepo.Create(ctx, tx, vitamin); err != nil {
		u.log.Warnf("Failed to create vitamin: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.VitaminToResponse(vitamin), nil
}

func (u *vitaminUsecase) Update(ctx context.Context, id int, req *dto.UpdateVitaminRequest) (*dto.VitaminResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	vitamin, err := u.vitaminRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find vitamin: %+v", err)
		return nil, err
	}
	if vitamin == nil {
		return nil, ErrVitaminNotFound
	}

	if req.VitaminName != nil {
		name, err := entity.NormalizeVitaminName(*req.VitaminName)
		if err != nil {
			return nil, err
		}
		vitamin.VitaminName = name
	}
	if req.Status != nil {
		vitamin.Status = entity.DoseStatus(*req.Status)
	}
	if req.Date != nil {
		vitamin.Date = req.Date
	}

	if err := u.vitaminRepo.Update(ctx, tx, vitamin); err != nil {
		u.log.Warnf("Failed to update vitamin: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.VitaminToResponse(vitamin), nil
}
