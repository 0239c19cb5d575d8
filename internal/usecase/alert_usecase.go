package usecase

import (
	"context"

	"healthmon-backend/internal/converter"
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AlertUsecase interface {
	Create(ctx context.Context, patientID int, req *dto.AlertRequest) (*dto.AlertResponse, error)
	GetRecent(ctx context.Context) ([]dto.AlertResponse, error)
}

type alertUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	alertRepo   repository.AlertRepository
}

func NewAlertUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	alertRepo repository.AlertRepository,
) AlertUsecase {
	return &alertUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		alertRepo:   alertRepo,
	}
}

// Create stores the alert and escalates the patient's status in the same transaction.
func (u *alertUsecase) Create(ctx context.Context, patientID int, req *dto.AlertRequest) (*dto.AlertResponse, error) {
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

	alert := &entity.Alert{
		PatientID:   patient.ID,
		AlertType:   entity.AlertType(req.AlertType),
		Description: req.Description,
	}
	if err := u.alertRepo.Create(ctx, tx, alert); err != nil {
		u.log.Warnf("Failed to create alert: %+v", err)
		return nil, err
	}

	previous := patient.Status
	patient.Escalate(alert.AlertType)
	if patient.Status != previous {
		if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
			u.log.Warnf("Failed to escalate patient status: %+v", err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	alert.Patient = patient
	return converter.AlertToResponse(alert), nil
}

func (u *alertUsecase) GetRecent(ctx context.Context) ([]dto.AlertResponse, error) {
	alerts, err := u.alertRepo.FindRecent(ctx, u.db, entity.RecentAlertLimit)
	if err != nil {
		u.log.Warnf("Failed to find recent alerts: %+v", err)
		return nil, err
	}
	return converter.AlertsToResponses(alerts), nil
}
