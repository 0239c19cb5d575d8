package repository

import (
	"context"
	"errors"
	"time"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct {
	syncRepository[entity.Patient]
}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{
		syncRepository: newSyncRepository[entity.Patient]("patients",
			"name", "age", "gender", "category", "nik", "guardian_name", "mother_nik",
			"child_nik", "family_card_number", "birth_date", "last_checkup_date", "status",
		),
	}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// FindDetail loads the patient with every child collection in display order:
// checkups newest first, vitamins/immunizations/milestones by date, alerts newest first.
func (r *patientRepository) FindDetail(ctx context.Context, db *gorm.DB, id int) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).
		Preload("Checkups", func(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") }).
		Preload("Vitamins", func(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") }).
		Preload("Alerts", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC, id DESC") }).
		Preload("Immunizations", func(tx *gorm.DB) *gorm.DB { return tx.Order("date ASC, id ASC") }).
		Preload("Milestones", func(tx *gorm.DB) *gorm.DB { return tx.Order("date ASC, id ASC") }).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, category entity.Category) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC, id DESC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// FindForExport preloads checkups newest first so the first one is the latest.
func (r *patientRepository) FindForExport(ctx context.Context, db *gorm.DB, category entity.Category) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.WithContext(ctx).
		Preload("Checkups", func(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") }).
		Preload("Vitamins", func(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") })
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC, id DESC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(patient).Error
}

func (r *patientRepository) UpdateLastCheckupDate(ctx context.Context, db *gorm.DB, id int, date time.Time) error {
	return db.WithContext(ctx).Model(&entity.Patient{}).
		Where("id = ?", id).
		Update("last_checkup_date", date).Error
}

// Delete removes the patient; child rows go with it through ON DELETE CASCADE.
func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}

func (r *patientRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Count(&total).Error
	return total, err
}

func (r *patientRepository) CountByCategory(ctx context.Context, db *gorm.DB, categories ...entity.Category) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Where("category IN ?", categories).Count(&total).Error
	return total, err
}

func (r *patientRepository) CountByStatus(ctx context.Context, db *gorm.DB, statuses ...entity.PatientStatus) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Where("status IN ?", statuses).Count(&total).Error
	return total, err
}
