package entity

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
)

const fullNameMaxLen = 100

// now is swapped in tests. Postgres keeps microseconds, so finer precision
// would not survive a round trip through the store.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// User is the aggregate root for the user domain.
// Fields are only changed through the mutators so that updated_at tracks every change.
type User struct {
	id        uuid.UUID
	username  Username
	email     Email
	fullName  *string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// UserRecord is the persisted shape of a User.
type UserRecord struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates an active user with a fresh id.
func NewUser(username Username, email Email) *User {
	t := now()
	return &User{
		id:        uuid.New(),
		username:  username,
		email:     email,
		status:    StatusActive,
		createdAt: t,
		updatedAt: t,
	}
}

// RestoreUser rebuilds a User from storage. The id and timestamps are kept as stored.
func RestoreUser(rec UserRecord) (*User, error) {
	username, err := NewUsername(rec.Username)
	if err != nil {
		return nil, errs.DataIntegrity("stored username is invalid: " + err.Error())
	}
	email, err := NewEmail(rec.Email)
	if err != nil {
		return nil, errs.DataIntegrity("stored email is invalid: " + err.Error())
	}
	status, err := parseStoredStatus(rec.Status)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        rec.ID,
		username:  username,
		email:     email,
		fullName:  copyString(rec.FullName),
		status:    status,
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
	}, nil
}

// Record returns the persisted shape of u.
func (u *User) Record() UserRecord {
	return UserRecord{
		ID:        u.id,
		Username:  u.username.String(),
		Email:     u.email.String(),
		FullName:  copyString(u.fullName),
		Status:    u.status.String(),
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	}
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	c := *u
	c.fullName = copyString(u.fullName)
	return &c
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Username() Username   { return u.username }
func (u *User) Email() Email         { return u.email }
func (u *User) Status() Status       { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// FullName returns a copy of the full name, or nil when unset.
func (u *User) FullName() *string { return copyString(u.fullName) }

func (u *User) IsActive() bool { return u.status == StatusActive }

func (u *User) UpdateUsername(username Username) {
	u.username = username
	u.touch()
}

func (u *User) UpdateEmail(email Email) {
	u.email = email
	u.touch()
}

// UpdateFullName sets or clears the full name. nil or "" clears it.
// The user is left unchanged when the name is too long.
func (u *User) UpdateFullName(name *string) error {
	if err := ValidateFullName(name); err != nil {
		return err
	}
	if name == nil || *name == "" {
		u.fullName = nil
	} else {
		u.fullName = copyString(name)
	}
	u.touch()
	return nil
}

func (u *User) Activate() {
	u.status = StatusActive
	u.touch()
}

func (u *User) Deactivate() {
	u.status = StatusInactive
	u.touch()
}

func (u *User) Suspend() {
	u.status = StatusSuspended
	u.touch()
}

// ValidateFullName checks the full name length rule without touching a user.
func ValidateFullName(name *string) error {
	if name != nil && utf8.RuneCountInString(*name) > fullNameMaxLen {
		return errs.Validation("full_name", errs.RuleTooLong, "full name cannot exceed 100 characters")
	}
	return nil
}

// touch bumps updated_at, never letting it fall behind created_at.
func (u *User) touch() {
	t := now()
	if t.Before(u.createdAt) {
		t = u.createdAt
	}
	u.updatedAt = t
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
