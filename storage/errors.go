package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

//  P0002	no_data_found
// 42501	insufficient_privilege
// 23505	unique_violation

const (
	AUTH_CODE          = "42501"
	RESOURCE_CODE      = "P0002"
	INCONSISTENCY_CODE = "23503"
	UNIQUE_CODE        = "23505"
)

// ErrTopicMapNotFound is raised when no topic map is stored for a locator
var ErrTopicMapNotFound = errors.New("topic map not found")

// ErrUnknownUser is raised for missing or inactive users
var ErrUnknownUser = errors.New("unknown user")

func FindCodeInPSQLException(sourceError error) string {
	var pgErr *pgconn.PgError
	var result string
	if errors.As(sourceError, &pgErr) {
		result = pgErr.Code
	}

	return result
}
