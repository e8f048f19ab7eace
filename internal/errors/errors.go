package errors

import "fmt"

// ErrorCode represents a Chronicle error code.
type ErrorCode string

const (
	ErrEmptyEnvelope      ErrorCode = "EMPTY_ENVELOPE"      // 400
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrConflict           ErrorCode = "CONFLICT"            // 409
	ErrMalformedEnvelope  ErrorCode = "MALFORMED_ENVELOPE"  // 422
	ErrUnroutableFragment ErrorCode = "UNROUTABLE_FRAGMENT" // 422
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// ChronicleError represents a structured error with code, status, and details.
type ChronicleError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ChronicleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewEmptyEnvelope creates a 400 error for envelopes constructed with zero records.
// This is a caller contract violation, not a recoverable runtime condition.
func NewEmptyEnvelope() *ChronicleError {
	return &ChronicleError{
		Code:    ErrEmptyEnvelope,
		Status:  400,
		Message: "an envelope must contain at least one change record",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ChronicleError {
	return &ChronicleError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a commit cannot be found.
func NewNotFound(identifier string) *ChronicleError {
	return &ChronicleError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("commit not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for duplicate commit IDs on import.
func NewConflict(id string) *ChronicleError {
	return &ChronicleError{
		Code:    ErrConflict,
		Status:  409,
		Message: fmt.Sprintf("commit already exists: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewMalformedEnvelope creates a 422 error for a commit body that cannot be
// decoded as an envelope (e.g., empty body).
func NewMalformedEnvelope(msg string) *ChronicleError {
	return &ChronicleError{
		Code:    ErrMalformedEnvelope,
		Status:  422,
		Message: msg,
	}
}

// NewUnroutableFragment creates a 422 error for a body fragment that no
// registered change variant can parse. The fragment text and its position
// are included so the offending commit can be inspected manually.
func NewUnroutableFragment(position int, fragment string) *ChronicleError {
	return &ChronicleError{
		Code:    ErrUnroutableFragment,
		Status:  422,
		Message: fmt.Sprintf("fragment %d cannot be routed to a change variant", position),
		Details: map[string]any{"position": position, "fragment": fragment},
	}
}

// NewInternal creates a 500 error wrapping an internal failure.
func NewInternal(err error) *ChronicleError {
	return &ChronicleError{
		Code:    ErrInternal,
		Status:  500,
		Message: err.Error(),
	}
}
