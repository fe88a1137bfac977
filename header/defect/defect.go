// Package defect describes the diagnostics attached to parsed header tokens.
// A defect records a departure from strict RFC 5322, RFC 2047, or RFC 2231
// syntax that the parser recovered from. Defects never stop a parse. They are
// returned alongside a usable token tree so that the caller can decide to log
// them, ignore them, or reject the message.
package defect

import "fmt"

// Kind identifies the class of a Defect.
type Kind int

// The kinds of defects the parser records.
const (
	// Invalid marks malformed input that was recovered, usually by capturing
	// the offending text verbatim.
	Invalid Kind = iota

	// Obsolete marks syntax that is only permitted by the obsolete grammar
	// of RFC 5322 section 4.
	Obsolete

	// NonASCIILocalPart marks a local-part holding non-ASCII characters.
	NonASCIILocalPart

	// UndecodableBytes marks bytes that could not be decoded with the
	// declared or assumed charset. Those bytes are kept as-is.
	UndecodableBytes

	// NonPrintable marks ASCII control characters found in a token.
	NonPrintable

	// InvalidBase64Padding marks a "b" encoded word with bad padding.
	InvalidBase64Padding

	// InvalidBase64Characters marks a "b" encoded word with characters
	// outside the base64 alphabet.
	InvalidBase64Characters

	// InvalidBase64Length marks a "b" encoded word whose length cannot be
	// decoded at all.
	InvalidBase64Length

	// Charset marks an unknown charset. The text was decoded as us-ascii
	// with undecodable bytes left as-is.
	Charset

	// MissingRequiredValue marks a header that must have a value, but was
	// empty.
	MissingRequiredValue

	// InvalidDate marks a Date value that no date format could parse.
	InvalidDate
)

var kindNames = map[Kind]string{
	Invalid:                 "invalid header content",
	Obsolete:                "obsolete syntax",
	NonASCIILocalPart:       "non-ASCII local-part",
	UndecodableBytes:        "undecodable bytes",
	NonPrintable:            "non-printable character",
	InvalidBase64Padding:    "invalid base64 padding",
	InvalidBase64Characters: "invalid base64 characters",
	InvalidBase64Length:     "invalid base64 length",
	Charset:                 "unknown charset",
	MissingRequiredValue:    "missing required value",
	InvalidDate:             "invalid date",
}

// String returns a short human readable name for the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("defect(%d)", int(k))
}

// Defect is a single diagnostic. It implements error so it can be used with
// errors.Is against the sentinel values below, but the parser never returns
// a Defect as an error.
type Defect struct {
	Kind    Kind
	Message string
}

// Sentinels that match any Defect of the same Kind when used with errors.Is.
var (
	ErrInvalid                 = &Defect{Kind: Invalid}
	ErrObsolete                = &Defect{Kind: Obsolete}
	ErrNonASCIILocalPart       = &Defect{Kind: NonASCIILocalPart}
	ErrUndecodableBytes        = &Defect{Kind: UndecodableBytes}
	ErrNonPrintable            = &Defect{Kind: NonPrintable}
	ErrInvalidBase64Padding    = &Defect{Kind: InvalidBase64Padding}
	ErrInvalidBase64Characters = &Defect{Kind: InvalidBase64Characters}
	ErrInvalidBase64Length     = &Defect{Kind: InvalidBase64Length}
	ErrCharset                 = &Defect{Kind: Charset}
	ErrMissingRequiredValue    = &Defect{Kind: MissingRequiredValue}
	ErrInvalidDate             = &Defect{Kind: InvalidDate}
)

// New creates a defect of the given kind.
func New(k Kind, msg string) *Defect {
	return &Defect{Kind: k, Message: msg}
}

// Invalidf creates an Invalid defect with a formatted message.
func Invalidf(format string, args ...any) *Defect {
	return &Defect{Kind: Invalid, Message: fmt.Sprintf(format, args...)}
}

// Obsoletef creates an Obsolete defect with a formatted message.
func Obsoletef(format string, args ...any) *Defect {
	return &Defect{Kind: Obsolete, Message: fmt.Sprintf(format, args...)}
}

// Error returns the defect as a string.
func (d *Defect) Error() string {
	if d.Message == "" {
		return d.Kind.String()
	}
	return d.Kind.String() + ": " + d.Message
}

// Is reports whether target is a Defect of the same kind. A target with a
// message must match the message as well.
func (d *Defect) Is(target error) bool {
	t, ok := target.(*Defect)
	if !ok {
		return false
	}
	if t.Kind != d.Kind {
		return false
	}
	return t.Message == "" || t.Message == d.Message
}

// Has reports whether any defect in the list has the given kind.
func Has(ds []*Defect, k Kind) bool {
	for _, d := range ds {
		if d.Kind == k {
			return true
		}
	}
	return false
}
