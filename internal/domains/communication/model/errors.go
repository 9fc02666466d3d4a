package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeValidation = "COM001"
)

var ErrValidation = errors.New("validation failed")

type CommunicationError struct {
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *CommunicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

func NewValidationError(details interface{}) *CommunicationError {
	return &CommunicationError{
		Code:    ErrCodeValidation,
		Message: "Invalid input",
		Details: details,
		Err:     ErrValidation,
	}
}
