package repository

import (
	"context"
	"errors"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type checkupRepository struct {
	syncRepository[entity.Checkup]
}

func NewCheckupRepository() domainRepo.CheckupRepository {
	return &checkupRepository{
		syncRepository: newSyncRepository[entity.Checkup]("checkups",
			"patient_id", "date", "weight", "height", "head_circumference",
			"blood_pressure", "systolic", "diastolic", "blood_sugar",
		),
	}
}

func (r *checkupRepository) Create(ctx context.Context, db *gorm.DB, checkup *entity.Checkup) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(checkup).Error
}

func (r *checkupRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Checkup, error) {
	var checkup entity.Checkup
	err := db.WithContext(ctx).Where("id = ?", id).First(&checkup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkup, nil
}

func (r *checkupRepository) Update(ctx context.Context, db *gorm.DB, checkup *entity.Checkup) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(checkup).Error
}
