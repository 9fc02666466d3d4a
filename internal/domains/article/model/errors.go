package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeArticleNotFound = "ART001"
	ErrCodeValidation      = "ART002"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrValidation      = errors.New("validation failed")
)

type ArticleError struct {
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *ArticleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

func NewArticleNotFoundError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeArticleNotFound,
		Message: "Article not found",
		Err:     ErrArticleNotFound,
	}
}

func NewValidationError(details interface{}) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeValidation,
		Message: "Invalid input",
		Details: details,
		Err:     ErrValidation,
	}
}
