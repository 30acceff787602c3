package console

import "fmt"

// InputFormatError reports text that could not be parsed where a number was required.
type InputFormatError struct {
	Field string
	Input string
	Err   error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }
