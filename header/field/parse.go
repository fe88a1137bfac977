package field

import (
	"bytes"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// isContinuation reports whether line continues the previous field: it
// starts with a space or tab, or it holds no colon.
func isContinuation(line []byte) bool {
	return line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":"))
}

// ParseLines splits the given input into lines according to the rules we use to
// determine how to break header fields up inside a header. The input bytes are
// expected to include only the header. It will parse the whole input as if all
// of it belongs to the header. It returns the input as Lines, which are
// [][]byte, ready to feed into the header field parser.
//
// This method does not follow RFC 5322 precisely. It will accept input that
// would be rejected by RFC 5322 as part of the effort this module
// library makes in attempting to be liberal in what it accepts, but strict in
// what it generates.
//
// If the first line (or lines) of input start with spaces or contain no colons,
// these lines will be skipped in the Lines returned. However, a BadStartError
// will be returned.
//
// From then on, this will start a new field on any line that does not start
// with a space and contains a colon. After the first such line is encountered,
// any line after that will be considered a continuation if it starts with a
// space or does not contain a colon.
func ParseLines(m []byte, lb Break) (Lines, error) {
	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb.Bytes()) {
		if len(line) == 0 {
			break
		}
		if isContinuation(line) {
			// Start with a continuation? Weird, uh...
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Unfold will take a folded header line and unfold it for reading by removing
// every CR and LF. This gives you the proper header body value.
func Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if b != '\r' && b != '\n' {
			uf = append(uf, b)
		}
	}
	return uf
}

// Parse will take a single header field line, including any folded continuation
// lines. This will then construct a header field object. The body is unfolded,
// stripped of leading whitespace, and handed to the parser registered for the
// field name.
func Parse(f Line, lb Break) *Field {
	rawField := bytes.TrimRight(f, lb.String())

	off := 1
	ix := bytes.Index(rawField, []byte{':'})
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(Unfold(rawField[:ix]))
	body := string(bytes.TrimLeft(Unfold(rawField[ix+off:]), " \t"))

	return &Field{
		name: name,
		tree: ParserFor(name)(body),
		Raw:  &Raw{rawField, ix},
	}
}
