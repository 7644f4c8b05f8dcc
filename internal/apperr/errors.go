package apperr

import "fmt"

// ValidationError indicates malformed input, such as a clock-out time
// before the clock-in time. The operation is aborted with no partial write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates a referenced entry, job, site, or user is missing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// StateError indicates an operation rejected by a lifecycle guard, such as
// archiving a week that still contains an open entry. It is raised before
// any side effect occurs.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// TransportError indicates a webhook submission failed at the network
// level. The week remains active; retries are the caller's responsibility.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func State(format string, args ...interface{}) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

func Transport(err error, format string, args ...interface{}) *TransportError {
	return &TransportError{Message: fmt.Sprintf(format, args...), Err: err}
}
