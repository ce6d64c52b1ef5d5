// Package errs defines the error kinds shared by the domain and application layers.
//
// Callers match kinds with errors.Is:
//
//	if errors.Is(err, errs.ErrNotFound) { ... }
//
// Anything that is not an *Error (database, cache, network) is an infrastructure
// failure and is passed through unchanged.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrDataIntegrity = errors.New("data integrity error")
)

// Validation rules reported in Error.Rule.
const (
	RuleEmpty    = "empty"
	RuleTooShort = "too_short"
	RuleTooLong  = "too_long"
	RuleCharset  = "charset"
	RuleFormat   = "format"
	RuleRange    = "range"
)

// Error is a classified domain error.
type Error struct {
	Kind    error
	Field   string
	Rule    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func Validation(field, rule, msg string) *Error {
	return &Error{Kind: ErrValidation, Field: field, Rule: rule, Message: msg}
}

func AlreadyExists(field, value string) *Error {
	return &Error{Kind: ErrAlreadyExists, Field: field, Message: fmt.Sprintf("%s '%s' already exists", field, value)}
}

func NotFound(resource, key string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s not found", resource, key)}
}

func DataIntegrity(msg string) *Error {
	return &Error{Kind: ErrDataIntegrity, Message: msg}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
