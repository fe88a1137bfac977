package fold

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxLineLength is the line length RFC 5322 section 2.1.1 says
	// lines should be kept under.
	DefaultMaxLineLength = 78

	// DefaultLineSeparator is the line ending used on the wire.
	DefaultLineSeparator = "\r\n"

	// MinMaxLineLength is the shortest bounded line length that can hold an
	// RFC 2047 encoded word carrying at least one character.
	MinMaxLineLength = len("utf-8") + 7 + 2
)

var (
	// ErrLineLengthTooShort is returned when the maximum line length is
	// positive, but too short to hold the fixed overhead of an encoded word.
	ErrLineLengthTooShort = errors.New("max line length is too small to fit an encoded word")

	// ErrLineSeparator is returned when the line separator is empty or holds
	// something other than CR and LF characters.
	ErrLineSeparator = errors.New("line separator must be made of CR and LF characters")
)

// Policy describes how header values are laid out into lines.
type Policy struct {
	// MaxLineLength is the longest a line should be, in characters. Zero or
	// less means lines are never folded.
	MaxLineLength int

	// LineSeparator ends every output line.
	LineSeparator string

	// UTF8 allows raw UTF-8 in the output, as permitted by RFC 6532. When
	// false, non-ASCII text is carried in encoded words.
	UTF8 bool
}

var (
	// DefaultPolicy folds at 78 characters with CRLF line endings and
	// encodes all non-ASCII text.
	DefaultPolicy = &Policy{
		MaxLineLength: DefaultMaxLineLength,
		LineSeparator: DefaultLineSeparator,
	}

	// SMTPUTF8Policy is DefaultPolicy for transports that accept UTF-8
	// headers.
	SMTPUTF8Policy = &Policy{
		MaxLineLength: DefaultMaxLineLength,
		LineSeparator: DefaultLineSeparator,
		UTF8:          true,
	}

	// UnboundedPolicy never folds, but still encodes non-ASCII text.
	UnboundedPolicy = &Policy{
		LineSeparator: DefaultLineSeparator,
	}
)

// Option configures a Policy built by NewPolicy.
type Option func(p *Policy)

// WithMaxLineLength sets the maximum line length. Use 0 for no limit.
func WithMaxLineLength(n int) Option {
	return func(p *Policy) { p.MaxLineLength = n }
}

// WithLineSeparator sets the line separator, usually "\r\n" or "\n".
func WithLineSeparator(sep string) Option {
	return func(p *Policy) { p.LineSeparator = sep }
}

// WithUTF8 permits or forbids raw UTF-8 in folded output.
func WithUTF8(utf8 bool) Option {
	return func(p *Policy) { p.UTF8 = utf8 }
}

// NewPolicy returns a Policy starting from the settings of DefaultPolicy and
// modified by the given options. It returns an error if the resulting policy
// could not be used to fold.
func NewPolicy(opts ...Option) (*Policy, error) {
	p := *DefaultPolicy
	for _, opt := range opts {
		opt(&p)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the policy settings are usable.
func (p *Policy) Validate() error {
	if p.LineSeparator == "" || strings.Trim(p.LineSeparator, "\r\n") != "" {
		return fmt.Errorf("%w: %q", ErrLineSeparator, p.LineSeparator)
	}

	if p.MaxLineLength > 0 && p.MaxLineLength < MinMaxLineLength {
		return fmt.Errorf("%w: %d < %d", ErrLineLengthTooShort, p.MaxLineLength, MinMaxLineLength)
	}

	return nil
}

// maxLen returns the effective maximum line length.
func (p *Policy) maxLen() int {
	if p.MaxLineLength <= 0 {
		return unbounded
	}
	return p.MaxLineLength
}

// encoding returns the charset text must be representable in to be
// written without encoding.
func (p *Policy) encoding() string {
	if p.UTF8 {
		return "utf-8"
	}
	return "us-ascii"
}
