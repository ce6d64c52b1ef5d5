package application

import (
	"time"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
)

type CreateUserInput struct {
	Username string
	Email    string
	FullName *string
}

// UpdateUserInput carries a partial update. A nil Username or Email is left unchanged.
// FullName is only applied when FullNameSet is true; nil then clears it.
type UpdateUserInput struct {
	Username    *string
	Email       *string
	FullName    *string
	FullNameSet bool
}

func (in UpdateUserInput) provided() bool {
	return in.Username != nil || in.Email != nil || in.FullNameSet
}

// UserList is one page of users.
type UserList struct {
	Users  []*entity.User
	Total  int64
	Limit  int
	Offset int
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID().String(),
		Username:  u.Username().String(),
		Email:     u.Email().String(),
		FullName:  u.FullName(),
		Status:    u.Status().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func ToUserListResponse(l *UserList) UserListResponse {
	users := make([]UserResponse, 0, len(l.Users))
	for _, u := range l.Users {
		users = append(users, ToUserResponse(u))
	}
	return UserListResponse{Users: users, Total: l.Total, Limit: l.Limit, Offset: l.Offset}
}

// ToUserResponseFromRecord renders a search hit without re-validating it.
func ToUserResponseFromRecord(r entity.UserRecord) UserResponse {
	return UserResponse{
		ID:        r.ID.String(),
		Username:  r.Username,
		Email:     r.Email,
		FullName:  r.FullName,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
