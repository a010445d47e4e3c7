package models

import "errors"

var (
	// ErrNotFound is returned when a batch, request, or user id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResolved is returned when responding to a supply request that
	// has already been approved or rejected.
	ErrAlreadyResolved = errors.New("supply request already resolved")

	// ErrMalformedEnvelope is returned by the dispatcher when a queued payload
	// cannot be decoded.
	ErrMalformedEnvelope = errors.New("malformed notification envelope")
)

// ValidationError marks an input problem the caller can fix; handlers map
// it to a 400 rather than a 500.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
