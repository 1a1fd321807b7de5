package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// likeEscaper escapa los comodines de LIKE para que se busquen literales.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern envuelve el término de búsqueda en %...% escapando %, _ y \
// para que un término con comodines no amplíe la búsqueda.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// isForeignKeyViolation verifica si un error es una violación de FK (23503),
// ej. borrar una categoría con productos asociados.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // foreign_key_violation
}

// isSerializationFailure verifica si la transacción no pudo serializarse:
// 40001 (serialization_failure) o 40P01 (deadlock_detected). El caller debe
// reintentar la operación completa.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
