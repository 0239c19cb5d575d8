package repository

import (
	"context"

	"gorm.io/gorm"
)

// SyncRepository reconciles one table against an external source keyed by
// explicit primary keys. T is the entity type of the table.
type SyncRepository[T any] interface {
	ListIDs(ctx context.Context, db *gorm.DB) ([]int, error)
	DeleteNotIn(ctx context.Context, db *gorm.DB, ids []int) (int64, error)
	// Upsert inserts the row, or replaces the row with the same primary key.
	// A zero primary key always inserts with a generated key.
	Upsert(ctx context.Context, db *gorm.DB, row *T) error
	// ResetSequence realigns the primary key generator after explicit-key inserts.
	ResetSequence(ctx context.Context, db *gorm.DB) error
}
