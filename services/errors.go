package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for task lifecycle operations.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("not authorized")
	ErrValidation   = errors.New("validation failed")
)

// validationError 包装校验失败的具体原因，可用 errors.Is(err, ErrValidation) 判断
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
