package apperr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	msgDuplicate = "Duplicate entries are not allowed."
	msgInUse     = "Can't delete data, it's used in other tables."
	msgNotFound  = "Resource not found"
)

// FromDB maps a persistence error onto the taxonomy:
//   - gorm.ErrRecordNotFound → NotFound
//   - unique violations → DuplicateEntry
//   - foreign key violations → InUse
//   - not-null / check violations → Validation
//
// Errors that are already *AppError are returned unchanged; anything
// unrecognized becomes Internal.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Internal(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, msgNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Wrap(KindDuplicateEntry, msgDuplicate, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return Wrap(KindInUse, msgInUse, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(pgErr)
	}

	// sqlite reports constraint failures as plain text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return Wrap(KindDuplicateEntry, msgDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return Wrap(KindInUse, msgInUse, err)
	}
	return Internal(err)
}

func fromPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return Wrap(KindDuplicateEntry, msgDuplicate, pgErr)
	case pgerrcode.ForeignKeyViolation:
		return Wrap(KindInUse, msgInUse, pgErr)
	case pgerrcode.NotNullViolation:
		e := Wrap(KindValidation, "Missing required field", pgErr)
		e.Field = pgErr.ColumnName
		return e
	case pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
		return Wrap(KindValidation, "Invalid field value", pgErr)
	default:
		return Internal(pgErr)
	}
}
