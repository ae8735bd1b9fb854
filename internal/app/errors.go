package app

import (
	"errors"
	"fmt"
)

// ErrAlreadyLiked is returned when a user likes something twice.
var ErrAlreadyLiked = errors.New("already liked")

// ErrCascadeIncomplete is returned when a topic was deleted but removing
// its comments failed. The topic is gone; orphaned comments remain until
// the delete is retried.
var ErrCascadeIncomplete = errors.New("topic deleted but comment cleanup failed")

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
