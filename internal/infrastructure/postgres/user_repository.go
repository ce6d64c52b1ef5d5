package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
)

// DBTX is the subset of pgxpool.Pool used by the repository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, full_name, status, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	rec := u.Record()
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.Username, rec.Email, rec.FullName, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username entity.Username) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username.String())
}

func (r *UserRepository) FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String())
}

// Update overwrites the mutable columns. Updating an id that is not stored is a no-op.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	rec := u.Record()
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, full_name = $3, status = $4, updated_at = $5
		WHERE id = $6
	`, rec.Username, rec.Email, rec.FullName, rec.Status, rec.UpdatedAt, rec.ID)
	return translate(err)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) UsernameExists(ctx context.Context, username entity.Username) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username.String())
}

func (r *UserRepository) EmailExists(ctx context.Context, email entity.Email) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String())
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, sql string, arg any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) exists(ctx context.Context, sql string, arg any) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, sql, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var rec entity.UserRecord
	if err := row.Scan(&rec.ID, &rec.Username, &rec.Email, &rec.FullName, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return entity.RestoreUser(rec)
}

var _ repository.UserRepository = (*UserRepository)(nil)
