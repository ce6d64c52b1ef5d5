package entity

import (
	"regexp"
	"strings"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
)

const emailMaxLen = 255

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated, lowercased address. The zero value is not valid; use NewEmail.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	switch {
	case s == "":
		return Email{}, errs.Validation("email", errs.RuleEmpty, "email cannot be empty")
	case len(s) > emailMaxLen:
		return Email{}, errs.Validation("email", errs.RuleTooLong, "email cannot exceed 255 characters")
	case !emailPattern.MatchString(s):
		return Email{}, errs.Validation("email", errs.RuleFormat, "invalid email format: "+s)
	}
	return Email{value: strings.ToLower(s)}, nil
}

func (e Email) String() string { return e.value }

// LocalPart returns the part before '@'.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.value, "@")
	return local
}

// Domain returns the part after '@'.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}
