package header

import (
	"errors"
	"io"

	"github.com/zostay/go-headervalue/header/field"
)

// Parse will parse the given slice of bytes into a header using the given
// line break. It will assume the entire input represents the header.
//
// Junk before the first field is dropped and reported with a
// *field.BadStartError. The header returned is still usable in that case.
func Parse(m []byte, lb field.Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb)

	var badStartErr *field.BadStartError
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 || string(line) == lb.String() {
			continue
		}
		fields = append(fields, field.Parse(line, lb))
	}

	return &Header{lbr: lb, fields: fields}, finalErr
}

// Read parses a header from r, stopping at the blank line that ends it or
// at the end of input. As with Parse, a *field.BadStartError is returned
// alongside a usable header when junk precedes the first field.
//
// Read may consume input past the end of the header.
func Read(r io.Reader, lb field.Break) (*Header, error) {
	s := field.NewScanner(r, lb)

	h := &Header{lbr: lb}
	for s.Scan() {
		h.fields = append(h.fields, s.Field())
	}

	err := s.Err()
	var badStartErr *field.BadStartError
	if err != nil && !errors.As(err, &badStartErr) {
		return nil, err
	}
	return h, err
}
