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

// isSerializationFailure verifica si un error es un fallo de serialización o
// deadlock (40001 / 40P01): contención transitoria, la transacción completa
// puede reintentarse.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// sectionKey mapea el SectionID opcional del scope a la columna section_id
// ("" = nivel departamento; evita los problemas de NULL en claves únicas).
func sectionKey(sectionID *string) string {
	if sectionID == nil {
		return ""
	}
	return *sectionID
}

// sectionFromKey mapea la columna section_id de vuelta al dominio.
func sectionFromKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
