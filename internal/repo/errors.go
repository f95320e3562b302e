package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrBatchNotFound         = errors.New("batch not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrSupplierNotFound      = errors.New("supplier not found")
	ErrInvalidQuantityChange = errors.New("quantity change would make stock negative")
	ErrInvalidReference      = errors.New("referenced category, supplier or product does not exist")
	ErrDuplicateName         = errors.New("name already exists")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translatePgError maps constraint violations to repository errors and
// returns anything else unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return ErrInvalidReference
	case pgUniqueViolation:
		return ErrDuplicateName
	}
	return err
}
