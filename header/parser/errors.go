package parser

import (
	"fmt"

	"github.com/zostay/go-headervalue/header/encword"
)

// ErrInvalidEncodedWord is wrapped by the ParseError returned when text that
// starts and ends like an encoded word cannot be split into its charset,
// encoding, and text, or names an unknown encoding. Callers retry the same
// bytes as ordinary text.
var ErrInvalidEncodedWord = encword.ErrFormat

// ParseError reports that a production did not match the start of its
// input. It is used to select between alternatives and never escapes the
// Parse functions.
type ParseError struct {
	// Production names the production that failed.
	Production string

	// Msg describes what was expected and what was found.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Production + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Production + ": " + e.Msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

func fail(prod, format string, args ...any) error {
	return &ParseError{Production: prod, Msg: fmt.Sprintf(format, args...)}
}

func show(s string) string {
	const max = 40
	if len(s) > max {
		return fmt.Sprintf("%q...", s[:max])
	}
	return fmt.Sprintf("%q", s)
}
