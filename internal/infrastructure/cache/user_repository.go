// Package cache provides a Redis read-through cache in front of a UserRepository.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-service/pkg/helpers"
)

const keyPrefix = "user:id:"

func Key(id uuid.UUID) string { return keyPrefix + id.String() }

// UserRepository caches FindByID results. Everything else goes straight to the
// wrapped store, so uniqueness checks never see cached data.
type UserRepository struct {
	repository.UserRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{UserRepository: next, rdb: rdb, ttl: ttl, logger: logger}
}

// FindByID serves from Redis when possible. Reads marked with
// repository.WithFreshReads go to the store and leave the cache untouched.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if repository.FreshReads(ctx) {
		return r.UserRepository.FindByID(ctx, id)
	}
	var rec entity.UserRecord
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, Key(id), &rec)
	if err != nil {
		helpers.LogWarn(r.logger, "cache read failed", err, logrus.Fields{"key": Key(id)})
	}
	if hit {
		u, err := entity.RestoreUser(rec)
		if err == nil {
			return u, nil
		}
		helpers.LogWarn(r.logger, "dropping undecodable cache entry", err, logrus.Fields{"key": Key(id)})
		r.invalidate(ctx, id)
	}

	u, err := r.UserRepository.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	r.store(ctx, u)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Create(ctx, u); err != nil {
		return err
	}
	r.store(ctx, u)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID())
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *UserRepository) store(ctx context.Context, u *entity.User) {
	if err := helpers.RedisSetJSON(ctx, r.rdb, Key(u.ID()), u.Record(), r.ttl); err != nil {
		helpers.LogWarn(r.logger, "cache write failed", err, logrus.Fields{"user_id": u.ID().String()})
	}
}

func (r *UserRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := helpers.RedisDel(ctx, r.rdb, Key(id)); err != nil {
		helpers.LogWarn(r.logger, "cache invalidate failed", err, logrus.Fields{"user_id": id.String()})
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
