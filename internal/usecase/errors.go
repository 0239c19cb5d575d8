package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isDuplicateKeyError checks if the error is a unique constraint violation
// on the named constraint or column. PostgreSQL reports the constraint name;
// SQLite reports "UNIQUE constraint failed: table.column".
func isDuplicateKeyError(err error, name string) bool {
	name = strings.ToLower(name)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), name)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") {
		return strings.Contains(msg, "."+name)
	}
	return false
}

// patientConflict maps identity-number collisions to sentinel errors.
// child_nik is checked first because "nik" is a substring of it.
func patientConflict(err error) error {
	switch {
	case isDuplicateKeyError(err, "child_nik"):
		return ErrChildNIKAlreadyExists
	case isDuplicateKeyError(err, "nik"):
		return ErrNIKAlreadyExists
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrNIKAlreadyExists
	}
	return err
}
