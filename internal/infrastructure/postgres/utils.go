package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// orderByClause arma un ORDER BY seguro: solo columnas de la whitelist, con
// fallback y desempate estable por id para que la paginación no baile.
func orderByClause(sortBy string, desc bool, allowed map[string]bool, fallback string) string {
	col := fallback
	if allowed[sortBy] {
		col = sortBy
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id"
}
