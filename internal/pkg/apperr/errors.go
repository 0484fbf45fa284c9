// internal/pkg/apperr/errors.go
package apperr

import "errors"

// Business error taxonomy shared by all domain services. Handlers map these
// to HTTP status codes; everything else is treated as an internal failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid input")
)

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err wraps ErrConflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnauthorized reports whether err wraps ErrUnauthorized
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalid reports whether err wraps ErrInvalid
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
