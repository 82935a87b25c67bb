package orchestrator

import "errors"

// Sentinel errors surfaced by coordination operations. Handlers map these to
// HTTP statuses; nothing here is fatal to the process.
var (
	// ErrUnknownAgent is returned when a claim names an agent that never
	// registered. Inactive agents are still known and may claim.
	ErrUnknownAgent = errors.New("agent not registered")

	// ErrTaskUnavailable is returned when a specific task was requested
	// but it does not exist or is no longer pending.
	ErrTaskUnavailable = errors.New("task is not available to claim")

	// ErrNoAvailableTask is returned by an auto-select claim when no
	// pending unassigned task exists.
	ErrNoAvailableTask = errors.New("no available tasks to claim")

	// ErrTaskFinished is returned when completing a task that already
	// reached completed or failed. The history log is not touched.
	ErrTaskFinished = errors.New("task already reached a terminal status")

	// ErrConfirmationRequired guards the destructive full-state clear.
	ErrConfirmationRequired = errors.New("confirm must be true to clear orchestrator state")
)

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found: " + e.Key
}

// MalformedPayloadError is returned when a string-encoded payload fails to
// parse as JSON. Malformed input never reaches the stores.
type MalformedPayloadError struct {
	Field string
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	return "invalid JSON in " + e.Field + ": " + e.Err.Error()
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }
