package repository

import (
	"context"
	"time"

	"healthmon-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	SyncRepository[entity.Patient]

	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error)
	FindDetail(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, category entity.Category) ([]entity.Patient, error)
	FindForExport(ctx context.Context, db *gorm.DB, category entity.Category) ([]entity.Patient, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	UpdateLastCheckupDate(ctx context.Context, db *gorm.DB, id int, date time.Time) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountByCategory(ctx context.Context, db *gorm.DB, categories ...entity.Category) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, statuses ...entity.PatientStatus) (int64, error)
}
