package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bluestock/ipo-api/pkg/validation"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrEmptyResult        = errors.New("no records")
	ErrUnavailable        = errors.New("not available")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// ValidationError names the required fields that were missing or empty.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreError wraps a persistence failure. Its text is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func validateInput(v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	fields := validation.Fields(err)
	if fields == nil {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	return &ValidationError{Fields: fields}
}
