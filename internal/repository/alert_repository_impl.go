package repository

import (
	"context"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type alertRepository struct {
	syncRepository[entity.Alert]
}

func NewAlertRepository() domainRepo.AlertRepository {
	return &alertRepository{
		syncRepository: newSyncRepository[entity.Alert]("alerts", "patient_id", "alert_type", "description"),
	}
}

func (r *alertRepository) Create(ctx context.Context, db *gorm.DB, alert *entity.Alert) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error
}

// FindRecent returns the newest alerts with their patient.
func (r *alertRepository) FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]entity.Alert, error) {
	var alerts []entity.Alert
	err := db.WithContext(ctx).
		Preload("Patient").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
