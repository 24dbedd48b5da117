package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/precios-api/internal/domain"
)

// isSchemaMismatch indica si el error viene de una tabla o columna inexistente
// en la base del ERP.
func isSchemaMismatch(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UndefinedTable || pgErr.Code == pgerrcode.UndefinedColumn
	}
	return false
}

// wrapQueryError traduce errores de esquema a ErrConfiguration y envuelve el resto.
func wrapQueryError(op string, err error) error {
	if isSchemaMismatch(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConfiguration, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
