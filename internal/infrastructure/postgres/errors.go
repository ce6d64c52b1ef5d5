package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
)

const uniqueViolation = "23505"

// translate maps unique violations on the username and email constraints to
// repository.ConflictError and returns any other error unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pge *pgconn.PgError
	if !errors.As(err, &pge) || pge.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pge.ConstraintName, "username"):
		return &repository.ConflictError{Field: "username", Err: err}
	case strings.Contains(pge.ConstraintName, "email"):
		return &repository.ConflictError{Field: "email", Err: err}
	}
	return err
}
