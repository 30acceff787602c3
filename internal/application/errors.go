package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/go-user-crud/pkg/validation"
)

var ErrUserNotFound = errors.New("user not found")

// ValidationError lists every constraint the candidate user violated.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, "\n - %s: %s", v.Field, v.Message)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error { return e.Violations }

// NotFoundError reports a user id that does not exist.
// It matches ErrUserNotFound under errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user with id=%d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrUserNotFound }
