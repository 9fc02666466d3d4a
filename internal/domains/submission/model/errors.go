package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeSubmissionNotFound = "SUB001"
	ErrCodeInvalidToken       = "SUB002"
	ErrCodeInvalidTransition  = "SUB003"
	ErrCodeNotEditable        = "SUB004"
	ErrCodeIncomplete         = "SUB005"
	ErrCodeValidation         = "SUB006"
	ErrCodeUnknownEvent       = "SUB007"
)

// Errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidToken       = errors.New("invalid submission token format")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotEditable        = errors.New("submission cannot be edited")
	ErrIncomplete         = errors.New("submission is incomplete")
	ErrValidation         = errors.New("validation failed")
	ErrUnknownEvent       = errors.New("unknown lifecycle event")
)

// SubmissionError carries a stable code for the HTTP layer.
type SubmissionError struct {
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewSubmissionNotFoundError() *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeSubmissionNotFound,
		Message: "Submission not found",
		Err:     ErrSubmissionNotFound,
	}
}

func NewInvalidTokenError() *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeInvalidToken,
		Message: "Token must be 64 lowercase hexadecimal characters",
		Err:     ErrInvalidToken,
	}
}

// NewInvalidTransitionError names the current status so callers see why the event was refused.
func NewInvalidTransitionError(from Status, event Event) *SubmissionError {
	msg := fmt.Sprintf("cannot %s a submission with status %s", eventVerb(event), from)
	if event == EventPublish {
		msg = fmt.Sprintf("only approved submissions can be published (current status: %s)", from)
	}
	return &SubmissionError{
		Code:    ErrCodeInvalidTransition,
		Message: msg,
		Details: map[string]string{"current_status": string(from), "event": string(event)},
		Err:     ErrInvalidTransition,
	}
}

// NewStatusChangedError reports a compare-and-set miss: the row left the expected status meanwhile.
func NewStatusChangedError(expected Status) *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("submission is no longer in status %s", expected),
		Details: map[string]string{"expected_status": string(expected)},
		Err:     ErrInvalidTransition,
	}
}

func NewUnknownEventError(event Event) *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeUnknownEvent,
		Message: fmt.Sprintf("unknown event %q", event),
		Err:     ErrUnknownEvent,
	}
}

func NewNotEditableError(status Status) *SubmissionError {
	msg := "Submission can no longer be edited"
	if status.IsEditable() {
		msg = "Submission editing window has expired"
	}
	return &SubmissionError{
		Code:    ErrCodeNotEditable,
		Message: msg,
		Details: map[string]string{"current_status": string(status)},
		Err:     ErrNotEditable,
	}
}

func NewIncompleteError(details interface{}) *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeIncomplete,
		Message: "Submission is missing required fields for review",
		Details: details,
		Err:     ErrIncomplete,
	}
}

func NewValidationError(details interface{}) *SubmissionError {
	return &SubmissionError{
		Code:    ErrCodeValidation,
		Message: "Invalid input",
		Details: details,
		Err:     ErrValidation,
	}
}

func eventVerb(e Event) string {
	switch e {
	case EventRequestChanges:
		return "request changes on"
	case EventExtendExpiry:
		return "extend the expiry of"
	case EventRegenerateToken:
		return "regenerate the token of"
	default:
		return string(e)
	}
}

// ToHTTPStatus maps a submission error to its HTTP status. Unknown errors are 500.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotEditable):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrIncomplete),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnknownEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
