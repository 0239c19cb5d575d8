package repository

import (
	"context"

	"healthmon-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type CheckupRepository interface {
	SyncRepository[entity.Checkup]

	Create(ctx context.Context, db *gorm.DB, checkup *entity.Checkup) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Checkup, error)
	Update(ctx context.Context, db *gorm.DB, checkup *entity.Checkup) error
}
