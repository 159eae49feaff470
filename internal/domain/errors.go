package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized is returned when a verified identity is required but absent.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is the base for every missing or expired record.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the base for malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientData indicates the store holds fewer destinations than requested.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUpstream wraps failures of a backing store.
	ErrUpstream = errors.New("upstream failure")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")

	ErrChallengeNotFound = &kindError{msg: "challenge not found or has expired", kind: ErrNotFound}
	ErrQuestionNotFound  = &kindError{msg: "question not found", kind: ErrNotFound}
	ErrUserNotFound      = &kindError{msg: "user not found", kind: ErrNotFound}
	ErrUsernameTaken     = &kindError{msg: "username already taken", kind: ErrConflict}
	ErrBadCredentials    = &kindError{msg: "invalid username or password", kind: ErrUnauthorized}
)

// kindError is a specific error that matches its base sentinel with errors.Is
// but prints only its own message.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError lists every problem found in a request or record.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Upstream wraps a store failure so callers can match ErrUpstream.
func Upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
