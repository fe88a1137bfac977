package field

import "bytes"

// Break represents the line break used to separate the lines of a header.
type Break string

// Constants for use when selecting a line break to use with a new header. If
// you don't know what to pick, choose CRLF.
const (
	Meh  Break = ""         // Sometimes it doesn't matter
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
	LFCR Break = "\x0a\x0d" // \n\r - for weirdos
)

// breaks lists the line breaks in the order GuessBreak tries them.
var breaks = []Break{CRLF, LFCR, LF, CR}

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// GuessBreak returns the first kind of line break found in b. It returns
// CRLF if b contains no line break at all.
func GuessBreak(b []byte) Break {
	for _, lb := range breaks {
		if bytes.Contains(b, lb.Bytes()) {
			return lb
		}
	}
	return CRLF
}
