package entity

import (
	"regexp"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Username is a validated user handle. The zero value is not valid; use NewUsername.
type Username struct {
	value string
}

func NewUsername(s string) (Username, error) {
	switch {
	case s == "":
		return Username{}, errs.Validation("username", errs.RuleEmpty, "username cannot be empty")
	case len(s) < usernameMinLen:
		return Username{}, errs.Validation("username", errs.RuleTooShort, "username must be at least 3 characters")
	case len(s) > usernameMaxLen:
		return Username{}, errs.Validation("username", errs.RuleTooLong, "username cannot exceed 30 characters")
	case !usernamePattern.MatchString(s):
		return Username{}, errs.Validation("username", errs.RuleCharset,
			"username can only contain alphanumeric characters, underscores, and hyphens")
	}
	return Username{value: s}, nil
}

func (u Username) String() string { return u.value }
