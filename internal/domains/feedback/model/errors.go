package model

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeFeedbackNotFound   = "FBK001"
	ErrCodeInvalidTransition  = "FBK002"
	ErrCodeSubmissionNotReady = "FBK003"
	ErrCodeValidation         = "FBK004"
)

var (
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrInvalidTransition  = errors.New("invalid feedback status transition")
	ErrSubmissionNotReady = errors.New("submission does not accept feedback")
	ErrValidation         = errors.New("validation failed")
)

type FeedbackError struct {
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *FeedbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FeedbackError) Unwrap() error {
	return e.Err
}

func NewFeedbackNotFoundError() *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeFeedbackNotFound,
		Message: "Feedback not found",
		Err:     ErrFeedbackNotFound,
	}
}

func NewInvalidTransitionError(from, to Status) *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot move feedback from %s to %s", from, to),
		Details: map[string]string{"current_status": string(from), "requested_status": string(to)},
		Err:     ErrInvalidTransition,
	}
}

func NewSubmissionNotReadyError(status string) *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeSubmissionNotReady,
		Message: fmt.Sprintf("feedback can only be posted on submissions under review or awaiting changes (current status: %s)", status),
		Details: map[string]string{"current_status": status},
		Err:     ErrSubmissionNotReady,
	}
}

func NewValidationError(details interface{}) *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeValidation,
		Message: "Invalid input",
		Details: details,
		Err:     ErrValidation,
	}
}

// ToHTTPStatus maps a feedback error to its HTTP status. Unknown errors are 500.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFeedbackNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrSubmissionNotReady),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
