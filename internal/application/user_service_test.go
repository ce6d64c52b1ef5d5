package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-service/internal/infrastructure/memory"
)

// recordingRepo wraps the memory store, records method calls and can inject
// failures per method.
type recordingRepo struct {
	*memory.UserRepository
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	// freshFinds counts FindByID calls made with repository.WithFreshReads.
	freshFinds int
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{UserRepository: memory.NewUserRepository(), fail: map[string]error{}}
}

func (r *recordingRepo) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	return r.fail[name]
}

func (r *recordingRepo) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == "Create" || c == "Update" || c == "Delete" {
			n++
		}
	}
	return n
}

func (r *recordingRepo) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recordingRepo) Create(ctx context.Context, u *entity.User) error {
	if err := r.record("Create"); err != nil {
		return err
	}
	return r.UserRepository.Create(ctx, u)
}

func (r *recordingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := r.record("FindByID"); err != nil {
		return nil, err
	}
	if repository.FreshReads(ctx) {
		r.mu.Lock()
		r.freshFinds++
		r.mu.Unlock()
	}
	return r.UserRepository.FindByID(ctx, id)
}

func (r *recordingRepo) FindByUsername(ctx context.Context, un entity.Username) (*entity.User, error) {
	if err := r.record("FindByUsername"); err != nil {
		return nil, err
	}
	return r.UserRepository.FindByUsername(ctx, un)
}

func (r *recordingRepo) FindByEmail(ctx context.Context, em entity.Email) (*entity.User, error) {
	if err := r.record("FindByEmail"); err != nil {
		return nil, err
	}
	return r.UserRepository.FindByEmail(ctx, em)
}

func (r *recordingRepo) Update(ctx context.Context, u *entity.User) error {
	if err := r.record("Update"); err != nil {
		return err
	}
	return r.UserRepository.Update(ctx, u)
}

func (r *recordingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.record("Delete"); err != nil {
		return err
	}
	return r.UserRepository.Delete(ctx, id)
}

func (r *recordingRepo) UsernameExists(ctx context.Context, un entity.Username) (bool, error) {
	if err := r.record("UsernameExists"); err != nil {
		return false, err
	}
	return r.UserRepository.UsernameExists(ctx, un)
}

func (r *recordingRepo) EmailExists(ctx context.Context, em entity.Email) (bool, error) {
	if err := r.record("EmailExists"); err != nil {
		return false, err
	}
	return r.UserRepository.EmailExists(ctx, em)
}

func (r *recordingRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if err := r.record("List"); err != nil {
		return nil, err
	}
	return r.UserRepository.List(ctx, limit, offset)
}

func (r *recordingRepo) Count(ctx context.Context) (int64, error) {
	if err := r.record("Count"); err != nil {
		return 0, err
	}
	return r.UserRepository.Count(ctx)
}

func strptr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *Service, username, email string) *entity.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), CreateUserInput{Username: username, Email: email})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)

	u, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "alice_01", Email: "Alice@Example.com"})
	if err != nil {
		t.Fatalf("expected create to succeed, got error: %v", err)
	}
	if u.Email().String() != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", u.Email())
	}
	if !u.IsActive() {
		t.Fatal("new users must be active")
	}

	fetched, err := svc.GetUser(context.Background(), u.ID())
	if err != nil {
		t.Fatalf("expected get to succeed, got error: %v", err)
	}
	if fetched.Email().String() != "alice@example.com" {
		t.Fatalf("stored email mismatch: %s", fetched.Email())
	}
}

func TestCreateUserWithFullName(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "testuser", Email: "test@example.com", FullName: strptr("Test User"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := u.FullName(); got == nil || *got != "Test User" {
		t.Fatalf("unexpected full name %v", got)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	mustCreate(t, svc, "alice_01", "Alice@Example.com")

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "alice_01", Email: "other@example.com"})
	if !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	e, _ := errs.As(err)
	if e.Field != "username" || !strings.Contains(e.Error(), "alice_01") {
		t.Fatalf("expected error naming username alice_01, got %v", err)
	}
}

func TestCreateUserDuplicateEmailIgnoresCase(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	mustCreate(t, svc, "first", "same@example.com")

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "second", Email: "SAME@Example.COM"})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.ErrAlreadyExists || e.Field != "email" {
		t.Fatalf("expected email already exists, got %v", err)
	}
}

func TestCreateUserValidatesBeforeIO(t *testing.T) {
	cases := []CreateUserInput{
		{Username: "ab", Email: "ok@example.com"},
		{Username: "valid", Email: "not-an-email"},
		{Username: "valid", Email: "ok@example.com", FullName: strptr(strings.Repeat("x", 101))},
	}
	for _, in := range cases {
		repo := newRecordingRepo()
		svc := NewService(repo, nil)
		_, err := svc.CreateUser(context.Background(), in)
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("%+v: expected validation error, got %v", in, err)
		}
		if len(repo.calls) != 0 {
			t.Errorf("%+v: expected no repository calls, got %v", in, repo.calls)
		}
	}
}

func TestCreateUserMapsStoreConflict(t *testing.T) {
	repo := newRecordingRepo()
	repo.fail["Create"] = &repository.ConflictError{Field: "email", Err: errors.New("duplicate key")}
	svc := NewService(repo, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "racer", Email: "race@example.com"})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.ErrAlreadyExists || e.Field != "email" {
		t.Fatalf("expected conflict mapped to email already exists, got %v", err)
	}
}

func TestInfrastructureErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset")
	repo := newRecordingRepo()
	repo.fail["UsernameExists"] = boom
	svc := NewService(repo, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "someone", Email: "s@example.com"})
	if err != boom {
		t.Fatalf("expected the repository error unchanged, got %v", err)
	}

	repo.fail = map[string]error{"Count": boom}
	if _, err := svc.ListUsers(context.Background(), 10, 0); err != boom {
		t.Fatalf("expected count error unchanged, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	_, err := svc.GetUser(context.Background(), uuid.New())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	created := mustCreate(t, svc, "findme", "findme@example.com")

	u, err := svc.GetUserByUsername(context.Background(), "findme")
	if err != nil || u.ID() != created.ID() {
		t.Fatalf("expected to find user, got %v, %v", u, err)
	}
	if _, err := svc.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetUserByUsername(context.Background(), "x"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateUserEmailTakenByOther(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	mustCreate(t, svc, "usera", "a@x.com")
	b := mustCreate(t, svc, "userb", "b@x.com")

	_, err := svc.UpdateUser(context.Background(), b.ID(), UpdateUserInput{Email: strptr("a@x.com")})
	if !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	stored, _ := svc.GetUser(context.Background(), b.ID())
	if stored.Email().String() != "b@x.com" {
		t.Fatalf("failed update must not persist, got %s", stored.Email())
	}
}

func TestUpdateUserUsernameTakenByOther(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	mustCreate(t, svc, "usera", "a@x.com")
	b := mustCreate(t, svc, "userb", "b@x.com")

	_, err := svc.UpdateUser(context.Background(), b.ID(), UpdateUserInput{Username: strptr("usera")})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.ErrAlreadyExists || e.Field != "username" {
		t.Fatalf("expected username already exists, got %v", err)
	}
}

func TestUpdateUserKeepingOwnValues(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	a := mustCreate(t, svc, "usera", "a@x.com")

	u, err := svc.UpdateUser(context.Background(), a.ID(), UpdateUserInput{
		Username: strptr("usera"), Email: strptr("A@X.com"),
	})
	if err != nil {
		t.Fatalf("re-submitting own values must succeed, got %v", err)
	}
	if u.Email().String() != "a@x.com" {
		t.Fatalf("unexpected email %s", u.Email())
	}
}

func TestUpdateUserFullNameOmittedVersusCleared(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)
	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "named", Email: "n@example.com", FullName: strptr("Keep Me")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := svc.UpdateUser(ctx, created.ID(), UpdateUserInput{Username: strptr("renamed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := u.FullName(); got == nil || *got != "Keep Me" {
		t.Fatalf("omitted full name must be untouched, got %v", got)
	}

	u, err = svc.UpdateUser(ctx, created.ID(), UpdateUserInput{FullNameSet: true, FullName: nil})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.FullName() != nil {
		t.Fatalf("explicit null must clear full name, got %v", *u.FullName())
	}
	stored, _ := svc.GetUser(ctx, created.ID())
	if stored.FullName() != nil || stored.Username().String() != "renamed" {
		t.Fatalf("changes not persisted: %+v", stored.Record())
	}
}

func TestUpdateUserSingleWriteAndValidationFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	svc := NewService(repo, nil)
	u := mustCreate(t, svc, "writer", "w@example.com")

	repo.reset()
	_, err := svc.UpdateUser(ctx, u.ID(), UpdateUserInput{
		Username: strptr("writer2"), Email: strptr("w2@example.com"), FullNameSet: true, FullName: strptr("W"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.writes() != 1 {
		t.Fatalf("expected exactly one write, got calls %v", repo.calls)
	}

	repo.reset()
	_, err = svc.UpdateUser(ctx, u.ID(), UpdateUserInput{Username: strptr("ok_name"), Email: strptr("bad")})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("validation must happen before any repository call, got %v", repo.calls)
	}
}

func TestUpdateUserNothingProvided(t *testing.T) {
	repo := newRecordingRepo()
	svc := NewService(repo, nil)
	u := mustCreate(t, svc, "idle", "idle@example.com")
	repo.reset()

	got, err := svc.UpdateUser(context.Background(), u.ID(), UpdateUserInput{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.UpdatedAt().Equal(u.UpdatedAt()) {
		t.Fatal("empty update must not touch the user")
	}
	if repo.writes() != 0 {
		t.Fatalf("empty update must not write, got %v", repo.calls)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	_, err := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserInput{Username: strptr("ghost")})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeUserStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)
	u := mustCreate(t, svc, "status", "status@example.com")

	got, err := svc.ChangeUserStatus(ctx, u.ID(), "suspended")
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if got.IsActive() || got.Status() != entity.StatusSuspended {
		t.Fatalf("expected suspended, got %s", got.Status())
	}
	got, _ = svc.ChangeUserStatus(ctx, u.ID(), "active")
	if !got.IsActive() {
		t.Fatal("expected active again")
	}
	if _, err := svc.ChangeUserStatus(ctx, u.ID(), "banned"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)
	u := mustCreate(t, svc, "doomed", "doomed@example.com")

	if err := svc.DeleteUser(ctx, u.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(ctx, u.ID()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, u.ID()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestWritePathsReadFresh(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	svc := NewService(repo, nil)
	u := mustCreate(t, svc, "freshy", "freshy@example.com")

	if _, err := svc.GetUser(ctx, u.ID()); err != nil {
		t.Fatal(err)
	}
	if repo.freshFinds != 0 {
		t.Fatal("plain reads may be served from a cache")
	}

	name := "Fresh"
	if _, err := svc.UpdateUser(ctx, u.ID(), UpdateUserInput{FullName: &name, FullNameSet: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeUserStatus(ctx, u.ID(), "inactive"); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteUser(ctx, u.ID()); err != nil {
		t.Fatal(err)
	}
	if repo.freshFinds != 3 {
		t.Fatalf("expected update, status change and delete to read fresh, got %d", repo.freshFinds)
	}
}

func TestListUsersValidation(t *testing.T) {
	cases := []struct {
		limit, offset int
		field         string
	}{
		{0, 0, "limit"},
		{101, 0, "limit"},
		{200, 0, "limit"},
		{10, -1, "offset"},
	}
	for _, tc := range cases {
		repo := newRecordingRepo()
		svc := NewService(repo, nil)
		_, err := svc.ListUsers(context.Background(), tc.limit, tc.offset)
		e, ok := errs.As(err)
		if !ok || e.Kind != errs.ErrValidation || e.Field != tc.field {
			t.Errorf("ListUsers(%d, %d): expected validation error on %s, got %v", tc.limit, tc.offset, tc.field, err)
		}
		if len(repo.calls) != 0 {
			t.Errorf("ListUsers(%d, %d): expected no repository calls, got %v", tc.limit, tc.offset, repo.calls)
		}
	}
}

func TestListUsers(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	for _, name := range []string{"one", "two", "three"} {
		mustCreate(t, svc, name, name+"@example.com")
	}

	res, err := svc.ListUsers(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 3 || len(res.Users) != 3 || res.Limit != 100 || res.Offset != 0 {
		t.Fatalf("unexpected page %+v", res)
	}

	res, err = svc.ListUsers(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 3 || len(res.Users) != 1 || res.Limit != 2 || res.Offset != 2 {
		t.Fatalf("unexpected second page %+v", res)
	}
}

func TestToUserListResponse(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)
	mustCreate(t, svc, "dto_user", "dto@example.com")
	res, _ := svc.ListUsers(context.Background(), 10, 0)

	out := ToUserListResponse(res)
	if len(out.Users) != 1 || out.Users[0].Username != "dto_user" || out.Users[0].Status != "active" {
		t.Fatalf("unexpected response %+v", out)
	}
}
