package errs

import (
	"errors"
)

// Error categories surfaced to callers. Specific errors are marked with one of these
// via Mark so that Is(err, ErrConflict) classifies them.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAuthorization   = errors.New("authorization error")
	ErrPolicyViolation = errors.New("policy violation")
)

type Category string

const (
	CategoryValidation      Category = "VALIDATION"
	CategoryNotFound        Category = "NOT_FOUND"
	CategoryConflict        Category = "CONFLICT"
	CategoryAuthorization   Category = "AUTHORIZATION"
	CategoryPolicyViolation Category = "POLICY_VIOLATION"
	CategoryInternal        Category = "INTERNAL"
)

// Classify returns the category of err, or CategoryInternal when it carries none.
func Classify(err error) Category {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrValidation):
		return CategoryValidation
	case Is(err, ErrNotFound):
		return CategoryNotFound
	case Is(err, ErrConflict):
		return CategoryConflict
	case Is(err, ErrAuthorization):
		return CategoryAuthorization
	case Is(err, ErrPolicyViolation):
		return CategoryPolicyViolation
	default:
		return CategoryInternal
	}
}

// Validation, NotFound, Conflict, Authorization and Policy build a new error with msg
// marked with the matching category.
func Validation(msg string) error    { return Mark(New(msg), ErrValidation) }
func NotFound(msg string) error      { return Mark(New(msg), ErrNotFound) }
func Conflict(msg string) error      { return Mark(New(msg), ErrConflict) }
func Authorization(msg string) error { return Mark(New(msg), ErrAuthorization) }
func Policy(msg string) error        { return Mark(New(msg), ErrPolicyViolation) }
