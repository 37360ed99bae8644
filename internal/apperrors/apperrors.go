// internal/apperrors/apperrors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the caller-facing taxonomy. Services wrap these
// with context via fmt.Errorf("%w: ...") and handlers match them with
// errors.Is to pick a status code. Anything that does not match is a
// persistence failure and reported as a generic server error.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrStockExhausted  = errors.New("insufficient stock")
	ErrAlreadyAssigned = errors.New("order already assigned")
	ErrForbidden       = errors.New("forbidden")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
