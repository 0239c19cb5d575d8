package repository

import (
	"context"

	"healthmon-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type VitaminRepository interface {
	SyncRepository[entity.Vitamin]

	Create(ctx context.Context, db *gorm.DB, vitamin *entity.Vitamin) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Vitamin, error)
	Update(ctx context.Context, db *gorm.DB, vitamin *entity.Vitamin) error
}
