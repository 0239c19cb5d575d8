package repository

import (
	"context"

	"healthmon-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AlertRepository interface {
	SyncRepository[entity.Alert]

	Create(ctx context.Context, db *gorm.DB, alert *entity.Alert) error
	FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]entity.Alert, error)
}
