package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los adaptadores traducen a errores de dominio.
const (
	codeUniqueViolation = "23505"
)

// isUniqueViolation indica si err es una violación de constraint único
// (23505). En este esquema: users.username, users.email y products.name.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
