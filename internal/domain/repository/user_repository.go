package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
)

// UserRepository defines the persistence operations the user service depends on.
//
// Finders return (nil, nil) when no row matches. Returned users are fresh copies
// owned by the caller. Implementations must enforce username and email uniqueness
// themselves and report a violation as *ConflictError; the exists checks are only
// advisory.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username entity.Username) (*entity.User, error)
	FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UsernameExists(ctx context.Context, username entity.Username) (bool, error)
	EmailExists(ctx context.Context, email entity.Email) (bool, error)
	// List returns users ordered by created_at descending, ties by id descending.
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}

// ConflictError reports a uniqueness violation detected by the store.
type ConflictError struct {
	Field string // "username" or "email"
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return "unique constraint violated on " + e.Field + ": " + e.Err.Error()
	}
	return "unique constraint violated on " + e.Field
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsConflict reports whether err carries a *ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
