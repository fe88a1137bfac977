package field

import (
	"bufio"
	"bytes"
	"io"

	"github.com/zostay/go-headervalue/internal/scanner"
)

// MaxFieldLength is the longest complete field, continuation lines included,
// a Scanner will read.
const MaxFieldLength = 1 << 20

// Scanner reads header fields one at a time from a stream. Scanning stops at
// the blank line that ends the header, or at the end of input. Text before
// the first field is skipped and reported by Err as a BadStartError.
type Scanner struct {
	sc       *bufio.Scanner
	lb       Break
	field    *Field
	badStart []byte
}

// NewScanner returns a Scanner reading fields separated by lb from r. The
// reader is left positioned somewhere after the end of the header, so it is
// not suitable for reading the body that follows.
func NewScanner(r io.Reader, lb Break) *Scanner {
	s := &Scanner{lb: lb, sc: bufio.NewScanner(r)}
	s.sc.Buffer(make([]byte, 4096), MaxFieldLength)
	s.sc.Split(scanner.ExitByAdvance(s.split))
	return s
}

// Scan advances to the next field. It returns false at the end of the
// header, or when an error occurs.
func (s *Scanner) Scan() bool {
	if !s.sc.Scan() || len(s.sc.Bytes()) == 0 {
		s.field = nil
		return false
	}

	line := append(Line(nil), s.sc.Bytes()...)
	s.field = Parse(line, s.lb)
	return true
}

// Field returns the field read by the last call to Scan.
func (s *Scanner) Field() *Field {
	return s.field
}

// Err returns the first read error encountered. If the only problem was junk
// at the start of the header, it returns a *BadStartError holding that junk.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return err
	}
	if len(s.badStart) > 0 {
		return &BadStartError{BadStart: s.badStart}
	}
	return nil
}

// split returns one complete field per token. Lines before the first field
// are consumed without a token.
func (s *Scanner) split(data []byte, atEOF bool) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, nil
	}

	lb := s.lb.Bytes()
	if bytes.HasPrefix(data, lb) {
		return len(lb), nil, bufio.ErrFinalToken
	}

	end := lineEnd(data, 0, lb, atEOF)
	if end < 0 {
		return 0, nil, nil
	}

	if isContinuation(data[:end]) {
		s.badStart = append(s.badStart, data[:end]...)
		return end, nil, nil
	}

	for end < len(data) {
		if bytes.HasPrefix(data[end:], lb) {
			return end, data[:end], nil
		}

		next := lineEnd(data, end, lb, atEOF)
		if next < 0 {
			return 0, nil, nil
		}

		if !isContinuation(data[end:next]) {
			return end, data[:end], nil
		}
		end = next
	}

	if !atEOF {
		return 0, nil, nil
	}
	return end, data[:end], nil
}

// lineEnd returns the offset just past the line break of the line starting
// at from, or the end of data at EOF. It returns -1 when more data is
// needed.
func lineEnd(data []byte, from int, lb []byte, atEOF bool) int {
	if ix := bytes.Index(data[from:], lb); ix >= 0 {
		return from + ix + len(lb)
	}
	if atEOF {
		return len(data)
	}
	return -1
}
