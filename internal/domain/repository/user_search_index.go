package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
)

// UserSearchIndex is a secondary, eventually consistent full-text index of users.
type UserSearchIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]entity.UserRecord, error)
}
