package repository

import (
	"context"
	"fmt"

	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncRepository implements the explicit-key reconciliation operations for
// one table. columns are the fields replaced when a row with the same id exists.
type syncRepository[T any] struct {
	table   string
	columns []string
}

func newSyncRepository[T any](table string, columns ...string) syncRepository[T] {
	return syncRepository[T]{
		table:   table,
		columns: append(columns, "updated_at"),
	}
}

func NewImmunizationRepository() domainRepo.ImmunizationRepository {
	r := newSyncRepository[entity.Immunization]("immunizations", "patient_id", "vaccine_name", "status", "date")
	return &r
}

func NewMilestoneRepository() domainRepo.MilestoneRepository {
	r := newSyncRepository[entity.Milestone]("milestones", "patient_id", "milestone_name", "achieved", "date")
	return &r
}

func (r *syncRepository[T]) ListIDs(ctx context.Context, db *gorm.DB) ([]int, error) {
	var ids []int
	err := db.WithContext(ctx).Table(r.table).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteNotIn hard-deletes every row whose id is not listed. An empty list
// deletes nothing.
func (r *syncRepository[T]) DeleteNotIn(ctx context.Context, db *gorm.DB, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).Where("id NOT IN ?", ids).Delete(new(T))
	return result.RowsAffected, result.Error
}

// Upsert is a single INSERT ... ON CONFLICT (id) DO UPDATE, so a stale id is
// re-inserted with the same key instead of racing an update against an insert.
func (r *syncRepository[T]) Upsert(ctx context.Context, db *gorm.DB, row *T) error {
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(r.columns),
		}).
		Create(row).Error
}

func (r *syncRepository[T]) ResetSequence(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
		r.table, r.table,
	)
	return db.WithContext(ctx).Exec(query).Error
}
