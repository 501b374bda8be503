package intake

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmitPending signals that a createProject call is in flight; the
	// attempted operation was ignored and session state is unchanged.
	ErrSubmitPending = errors.New("intake: submit already in progress")
	// ErrSessionClosed is returned when the session has already been
	// submitted or abandoned.
	ErrSessionClosed = errors.New("intake: session is closed")
	// ErrUnknownTemplate is returned when a selection names a template the
	// catalog does not contain.
	ErrUnknownTemplate = errors.New("intake: template not found")
)

// StageError reports an operation attempted in a stage that does not permit
// it. The session state is left untouched.
type StageError struct {
	Op    string
	Stage Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("intake: cannot %s in stage %q", e.Op, e.Stage)
}

// ValidationError aggregates the canonical-attribute problems found at
// submission time. It never reaches the network; the session stays in
// Elaborate with all entered values intact.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "intake: validation failed: " + strings.Join(e.Problems, "; ")
}

// UserMessage returns the single aggregated message to surface inline.
func (e *ValidationError) UserMessage() string {
	return strings.Join(e.Problems, "; ")
}

// SubmissionError wraps a createProject failure. The session returns to
// Elaborate with every entered value preserved.
type SubmissionError struct {
	cause   error
	message string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("intake: create project: %v", e.cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.cause
}

// UserMessage returns the human-readable message derived from the failure,
// falling back to a generic one when the failure carries none.
func (e *SubmissionError) UserMessage() string {
	return e.message
}

// UserMessenger is implemented by errors that carry a message safe to show
// to the person filling in the form.
type UserMessenger interface {
	UserMessage() string
}

const genericSubmitMessage = "Could not create the project. Please try again."

func userMessageFor(err error) string {
	var messenger UserMessenger
	if errors.As(err, &messenger) {
		if msg := strings.TrimSpace(messenger.UserMessage()); msg != "" {
			return msg
		}
	}
	return genericSubmitMessage
}
