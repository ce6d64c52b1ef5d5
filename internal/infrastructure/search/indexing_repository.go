// Package search keeps an Elasticsearch projection of users in step with the store.
package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-service/pkg/helpers"
)

// IndexingRepository updates the search index after each successful write.
// The store stays the source of truth: index failures are logged, never returned.
type IndexingRepository struct {
	repository.UserRepository
	index  repository.UserSearchIndex
	logger *logrus.Logger
}

func NewIndexingRepository(next repository.UserRepository, index repository.UserSearchIndex, logger *logrus.Logger) *IndexingRepository {
	return &IndexingRepository{UserRepository: next, index: index, logger: logger}
}

func (r *IndexingRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Create(ctx, u); err != nil {
		return err
	}
	r.reindex(ctx, u)
	return nil
}

func (r *IndexingRepository) Update(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Update(ctx, u); err != nil {
		return err
	}
	r.reindex(ctx, u)
	return nil
}

func (r *IndexingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.index.Remove(ctx, id); err != nil {
		helpers.LogWarn(r.logger, "search index remove failed", err, logrus.Fields{"user_id": id.String()})
	}
	return nil
}

func (r *IndexingRepository) reindex(ctx context.Context, u *entity.User) {
	if err := r.index.Index(ctx, u); err != nil {
		helpers.LogWarn(r.logger, "search index update failed", err, logrus.Fields{"user_id": u.ID().String()})
	}
}

var _ repository.UserRepository = (*IndexingRepository)(nil)
