package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
	repo "github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
)

const (
	minPageLimit = 1
	maxPageLimit = 100
)

// Service implements the user use cases on top of a UserRepository.
// It keeps no per-call state and is safe for concurrent use.
type Service struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Logger: logger}
}

// CreateUser validates the input, checks uniqueness and persists a new active user.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	username, err := entity.NewUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := entity.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateFullName(in.FullName); err != nil {
		return nil, err
	}

	exists, err := s.Repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.AlreadyExists("username", username.String())
	}
	exists, err = s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.AlreadyExists("email", email.String())
	}

	u := entity.NewUser(username, email)
	if in.FullName != nil {
		if err := u.UpdateFullName(in.FullName); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, mapConflict(err, u)
	}
	s.logWrite("user created", u)
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.findExisting(ctx, id)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	un, err := entity.NewUsername(username)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByUsername(ctx, un)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.NotFound("user with username", "'"+un.String()+"'")
	}
	return u, nil
}

// UpdateUser applies the provided fields. Every provided value is validated before
// the repository is touched, and the result is written with a single Update.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*entity.User, error) {
	var (
		username *entity.Username
		email    *entity.Email
	)
	if in.Username != nil {
		un, err := entity.NewUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		username = &un
	}
	if in.Email != nil {
		em, err := entity.NewEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		email = &em
	}
	if in.FullNameSet {
		if err := entity.ValidateFullName(in.FullName); err != nil {
			return nil, err
		}
	}

	u, err := s.findForWrite(ctx, id)
	if err != nil {
		return nil, err
	}
	if !in.provided() {
		return u, nil
	}

	if username != nil {
		other, err := s.Repo.FindByUsername(ctx, *username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID() != id {
			return nil, errs.AlreadyExists("username", username.String())
		}
	}
	if email != nil {
		other, err := s.Repo.FindByEmail(ctx, *email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID() != id {
			return nil, errs.AlreadyExists("email", email.String())
		}
	}

	if username != nil {
		u.UpdateUsername(*username)
	}
	if email != nil {
		u.UpdateEmail(*email)
	}
	if in.FullNameSet {
		if err := u.UpdateFullName(in.FullName); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapConflict(err, u)
	}
	s.logWrite("user updated", u)
	return u, nil
}

// ChangeUserStatus moves a user to the given status ("active", "inactive" or "suspended").
func (s *Service) ChangeUserStatus(ctx context.Context, id uuid.UUID, status string) (*entity.User, error) {
	st, ok := entity.ParseStatus(status)
	if !ok {
		return nil, errs.Validation("status", errs.RuleFormat, "status must be one of active, inactive, suspended")
	}
	u, err := s.findForWrite(ctx, id)
	if err != nil {
		return nil, err
	}
	switch st {
	case entity.StatusActive:
		u.Activate()
	case entity.StatusInactive:
		u.Deactivate()
	case entity.StatusSuspended:
		u.Suspend()
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapConflict(err, u)
	}
	s.logWrite("user status changed", u)
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.findForWrite(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logWrite("user deleted", u)
	return nil
}

// ListUsers returns one page of users, newest first, with the total count.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) (*UserList, error) {
	if limit < minPageLimit || limit > maxPageLimit {
		return nil, errs.Validation("limit", errs.RuleRange, "limit must be between 1 and 100")
	}
	if offset < 0 {
		return nil, errs.Validation("offset", errs.RuleRange, "offset must be non-negative")
	}

	users, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &UserList{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) findExisting(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.NotFound("user with ID", id.String())
	}
	return u, nil
}

// findForWrite bypasses any read cache: the fetched user is written back whole,
// so a stale copy would undo earlier changes.
func (s *Service) findForWrite(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.findExisting(repo.WithFreshReads(ctx), id)
}

func (s *Service) logWrite(msg string, u *entity.User) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":  u.ID().String(),
		"username": u.Username().String(),
	}).Info(msg)
}

// mapConflict turns a store-level uniqueness violation into AlreadyExists for the
// offending field. Other errors are returned unchanged.
func mapConflict(err error, u *entity.User) error {
	ce, ok := repo.IsConflict(err)
	if !ok {
		return err
	}
	switch ce.Field {
	case "username":
		return errs.AlreadyExists("username", u.Username().String())
	case "email":
		return errs.AlreadyExists("email", u.Email().String())
	}
	return errs.AlreadyExists(ce.Field, "value")
}
