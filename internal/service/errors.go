package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNotAuthenticated  = errors.New("authentication required")
	ErrForbidden         = errors.New("you do not have permission to perform this action")
	ErrEmptyShoppingList = errors.New("shopping list is empty")
)

// ValidationError carries field-scoped messages for a rejected write payload.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: map[string][]string{}}
	e.Add(field, message)
	return e
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ConflictError reports a uniqueness or business-rule conflict with no state
// change.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
