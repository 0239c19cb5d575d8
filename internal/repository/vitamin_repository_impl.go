package repository

import (
	"context"
	"errors"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type vitaminRepository struct {
	syncRepository[entity.Vitamin]
}

func NewVitaminRepository() domainRepo.VitaminRepository {
	return &vitaminRepository{
		syncRepository: newSyncRepository[entity.Vitamin]("vitamins", "patient_id", "vitamin_name", "status", "date"),
	}
}

func (r *vitaminRepository) Create(ctx context.Context, db *gorm.DB, vitamin *entity.Vitamin) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(vitamin).Error
}

func (r *vitaminRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Vitamin, error) {
	var vitamin entity.Vitamin
	err := db.WithContext(ctx).Where("id = ?", id).First(&vitamin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vitamin, nil
}

func (r *vitaminRepository) Update(ctx context.Context, db *gorm.DB, vitamin *entity.Vitamin) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(vitamin).Error
}
