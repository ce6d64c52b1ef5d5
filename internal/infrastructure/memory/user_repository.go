package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
)

// UserRepository is an in-memory implementation of repository.UserRepository.
// Usernames and emails are kept in unique indexes, so concurrent writers get
// *repository.ConflictError just like with the postgres store.
type UserRepository struct {
	mu         sync.RWMutex
	store      map[uuid.UUID]*entity.User
	byUsername map[string]uuid.UUID
	byEmail    map[string]uuid.UUID
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		store:      make(map[uuid.UUID]*entity.User),
		byUsername: make(map[string]uuid.UUID),
		byEmail:    make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.put(u.Clone())
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username entity.Username) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username.String()]
	if !ok {
		return nil, nil
	}
	return r.store[id].Clone(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, nil
	}
	return r.store[id].Clone(), nil
}

// Update overwrites the stored user. Unknown ids are ignored.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.store[u.ID()]
	if !ok {
		return nil
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	delete(r.byUsername, old.Username().String())
	delete(r.byEmail, old.Email().String())
	r.put(u.Clone())
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.store[id]
	if !ok {
		return nil
	}
	delete(r.byUsername, u.Username().String())
	delete(r.byEmail, u.Email().String())
	delete(r.store, id)
	return nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username entity.Username) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username.String()]
	return ok, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email entity.Email) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email.String()]
	return ok, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	all := make([]*entity.User, 0, len(r.store))
	for _, u := range r.store {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		ai, bi := a.ID(), b.ID()
		return bytes.Compare(ai[:], bi[:]) > 0
	})

	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	result := make([]*entity.User, 0, end-offset)
	for _, u := range all[offset:end] {
		result = append(result, u.Clone())
	}
	return result, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.store)), nil
}

// checkUnique must be called with the write lock held.
func (r *UserRepository) checkUnique(u *entity.User) error {
	if id, ok := r.byUsername[u.Username().String()]; ok && id != u.ID() {
		return &repository.ConflictError{Field: "username"}
	}
	if id, ok := r.byEmail[u.Email().String()]; ok && id != u.ID() {
		return &repository.ConflictError{Field: "email"}
	}
	return nil
}

func (r *UserRepository) put(u *entity.User) {
	r.store[u.ID()] = u
	r.byUsername[u.Username().String()] = u.ID()
	r.byEmail[u.Email().String()] = u.ID()
}
