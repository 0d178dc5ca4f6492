// Package fault defines the typed errors the core rules return. Every
// rejected operation carries a specific human-readable reason; nothing here
// is fatal to the process.
package fault

import "fmt"

// ValidationError means a submission rule failed. Recoverable: the message is
// surfaced to the user and the mutation is never sent to the backend.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PolicyDenied means the session's role lacks permission for the action.
type PolicyDenied struct {
	Action string
}

func (e *PolicyDenied) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Action)
}

// Denied builds a PolicyDenied for the named action.
func Denied(action string) error {
	return &PolicyDenied{Action: action}
}

// RemoteFailure wraps an error from the external command transport. Surfaced
// verbatim; the pending operation is rolled back and not retried.
type RemoteFailure struct {
	Err error
}

func (e *RemoteFailure) Error() string {
	return fmt.Sprintf("remote command failed: %v", e.Err)
}

func (e *RemoteFailure) Unwrap() error { return e.Err }
