package sarvcrm

import (
	"errors"
	"fmt"
)

// Common errors returned by the SarvCRM client.
var (
	// ErrNotAuthenticated is returned when a call requires a session token
	// and none is held.
	ErrNotAuthenticated = errors.New("not authenticated: call Login first")

	// ErrNotFound is matched (via errors.Is) by NotFoundError.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownModule is returned when a module name is not in the registry.
	ErrUnknownModule = errors.New("unknown module")

	// ErrNoPhoneField is returned when a phone-number search targets a module
	// that does not declare a phone-number field.
	ErrNoPhoneField = errors.New("module has no phone-number field")
)

// AuthError indicates that login was rejected or could not complete.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sarvcrm: authentication failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("sarvcrm: authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError represents an application-level error reported by the SarvCRM
// service. The status code and message are passed through verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sarvcrm API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a missing resource.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates a rejected or expired token.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// TransportError indicates the request never produced a usable response:
// network failure, a 5xx status, or an unparseable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sarvcrm transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates a single-record read matched zero rows. It is a
// distinct type so callers can branch without string-matching, and it also
// satisfies errors.Is(err, ErrNotFound).
type NotFoundError struct {
	Module string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sarvcrm: no %s record with id %q", e.Module, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
