package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLessonNotFound is returned when a referenced lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrChoiceNotFound is returned when a referenced choice does not exist.
	ErrChoiceNotFound = errors.New("choice not found")
	// ErrNoResults is returned when a user has no submission history.
	ErrNoResults = errors.New("no quiz results found for this user")
	// ErrNoQuestions guards scoring against a lesson with zero questions,
	// which would otherwise divide by zero.
	ErrNoQuestions = errors.New("lesson has no questions")
)

// ValidationError reports malformed or incomplete input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
