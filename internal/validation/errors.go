package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid marks every validation failure so handlers can map them to 400.
var ErrInvalid = errors.New("validation failed")

// FieldError is a single-field failure raised outside struct-tag validation.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

// Check validates s and wraps any failure with ErrInvalid.
func Check(s interface{}) error {
	if err := Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
