package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these, so
// the transport layer can map it with errors.Is without knowing the specifics.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("conflict")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrPostNotFound        = fmt.Errorf("%w: post", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)
	ErrCVNotFound          = fmt.Errorf("%w: cv", ErrNotFound)
	ErrCompanyNotFound     = fmt.Errorf("%w: company", ErrNotFound)
	ErrCityNotFound        = fmt.Errorf("%w: city", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: category", ErrNotFound)
	ErrFileNotFound        = fmt.Errorf("%w: file", ErrNotFound)
)

var (
	ErrWrongRole = fmt.Errorf("%w: role not allowed for this action", ErrForbidden)
	ErrNotOwner  = fmt.Errorf("%w: resource belongs to another user", ErrForbidden)
)

var (
	ErrNoCapacity           = fmt.Errorf("%w: no free slots available", ErrConflict)
	ErrDuplicateApplication = fmt.Errorf("%w: already applied for this job", ErrConflict)
	ErrMissingCV            = fmt.Errorf("%w: a cv must be uploaded before applying", ErrConflict)
	ErrCVExists             = fmt.Errorf("%w: cv already uploaded", ErrConflict)
	ErrNoExistingCV         = fmt.Errorf("%w: no cv to replace", ErrConflict)
	ErrCompanyExists        = fmt.Errorf("%w: company already registered", ErrConflict)
	ErrUserExists           = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrDuplicate            = fmt.Errorf("%w: duplicate record", ErrConflict)
)

// ValidationReason is the closed set of reasons an input field can be rejected.
type ValidationReason string

const (
	ReasonRequired        ValidationReason = "required"
	ReasonInvalid         ValidationReason = "invalid"
	ReasonTooLarge        ValidationReason = "too_large"
	ReasonUnsupportedType ValidationReason = "unsupported_type"
	ReasonOutOfRange      ValidationReason = "out_of_range"
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason ValidationReason
}

func NewValidationError(field string, reason ValidationReason) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonRequired:
		return e.Field + " is required"
	case ReasonTooLarge:
		return e.Field + " is too large"
	case ReasonUnsupportedType:
		return e.Field + " has an unsupported type"
	case ReasonOutOfRange:
		return e.Field + " is out of range"
	default:
		return e.Field + " is invalid"
	}
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a file store failure so it matches ErrStorage while
// keeping the underlying cause reachable.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
