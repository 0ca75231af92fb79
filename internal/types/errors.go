package types

import "fmt"

// ValidationError reports missing or malformed generation inputs. It is
// user-correctable and raised before any network I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CompletionServiceError is a non-success response from the generation
// backend. Surfaced to users as a generic retryable failure; status and body
// are kept for diagnostics.
type CompletionServiceError struct {
	Status int
	Body   string
}

func (e *CompletionServiceError) Error() string {
	return fmt.Sprintf("completion service returned status %d", e.Status)
}

// MalformedCompletionError means the completion text could not be parsed
// into an itinerary. Raw is preserved for logs only, never shown to users.
type MalformedCompletionError struct {
	Raw string
	Err error
}

func (e *MalformedCompletionError) Error() string {
	return fmt.Sprintf("malformed completion: %v", e.Err)
}

func (e *MalformedCompletionError) Unwrap() error { return e.Err }

// StoreOperationError wraps a failed persistent-store operation with the
// operation's name so callers can report which step failed.
type StoreOperationError struct {
	Op  string
	Err error
}

func (e *StoreOperationError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreOperationError) Unwrap() error { return e.Err }
