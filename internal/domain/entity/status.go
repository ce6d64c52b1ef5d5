package entity

import "github.com/oksasatya/go-ddd-user-service/internal/domain/errs"

// Status is the account state of a user.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ParseStatus maps a stored status string to a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusSuspended:
		return Status(s), true
	}
	return "", false
}

func parseStoredStatus(s string) (Status, error) {
	st, ok := ParseStatus(s)
	if !ok {
		return "", errs.DataIntegrity("invalid user status: " + s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }
