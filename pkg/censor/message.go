package censor

import (
	"errors"
	"fmt"
	"strings"
)

const separator = ": "

// ErrNotFormatted matches every *FormatError via errors.Is.
var ErrNotFormatted = errors.New("not a formatted message")

// FormatError is returned when a string is not a "prefix: body" message.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNotFormatted, e.Input)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrNotFormatted
}

// ParseMessage splits message on the first ": ". Either side may be empty;
// only a missing separator is an error.
func ParseMessage(message string) (prefix, body string, err error) {
	prefix, body, ok := strings.Cut(message, separator)
	if !ok {
		return "", "", &FormatError{Input: message}
	}
	return prefix, body, nil
}
