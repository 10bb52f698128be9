package host

import "fmt"

// Error codes for the host package, modeled on the teacher project's
// HasherError taxonomy (internal/hasher/errors.go): a small integer code,
// a human-readable message, and an Error() that renders both.
const (
	ErrCodeDeviceUnavailable = 1
	ErrCodeBadUserspace      = 2
	ErrCodeUnknownControl    = 3
)

// HostError is a structured error type for the host package.
type HostError struct {
	Code    int
	Message string
	Details string
}

func (e *HostError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("host: [%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("host: [%d] %s", e.Code, e.Message)
}

func newError(code int, message string, details ...string) error {
	e := &HostError{Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// Predefined errors (spec section 7).
var (
	ErrDeviceUnavailable = newError(ErrCodeDeviceUnavailable, "device unavailable")
	ErrBadUserspace      = newError(ErrCodeBadUserspace, "inaccessible user buffer")
	ErrUnknownControl    = newError(ErrCodeUnknownControl, "unknown control command")
)
