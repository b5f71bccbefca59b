package gateway

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
)

// Postgres SQLSTATE codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify maps a database error onto a structured *AppError. Constraint
// violations are recognized by SQLSTATE (Postgres) or extended result code
// (SQLite, the test backend), never by message text, which is not a stable
// contract.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.Wrap(apperrors.ErrConflict, err)
		case pgForeignKeyViolation:
			return apperrors.Wrap(apperrors.ErrForeignKeyViolation, err)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return apperrors.Wrap(apperrors.ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return apperrors.Wrap(apperrors.ErrForeignKeyViolation, err)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// IsConflict reports whether err was classified as a uniqueness violation.
func IsConflict(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrConflict.Code
}

// IsForeignKeyViolation reports whether err was classified as a
// referential-integrity violation.
func IsForeignKeyViolation(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrForeignKeyViolation.Code
}
