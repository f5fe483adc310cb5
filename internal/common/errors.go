package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exist")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorValidation matches every *ValidationError via errors.Is.
	ErrorValidation = errors.New("validation error")
)

// ValidationError reports malformed or missing input. Reason is the
// human-readable cause, e.g. "missing name".
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is makes every ValidationError match ErrorValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

var (
	ErrMissingEmail       = &ValidationError{Reason: "missing email"}
	ErrMissingPassword    = &ValidationError{Reason: "missing password"}
	ErrMissingName        = &ValidationError{Reason: "missing name"}
	ErrMissingType        = &ValidationError{Reason: "missing type"}
	ErrMissingData        = &ValidationError{Reason: "missing data"}
	ErrParentNotFound     = &ValidationError{Reason: "parent not found"}
	ErrParentNotFolder    = &ValidationError{Reason: "parent is not a folder"}
	ErrFolderHasNoContent = &ValidationError{Reason: "a folder has no content"}
)
