// Package all widens the charset registry. Importing it for side effects
// points charset.CharsetEncoder and charset.CharsetDecoder at the MIME names
// of golang.org/x/text/encoding/ianaindex, so that encoded words and RFC 2231
// parameter values in nearly any registered charset can be read and
// written.
//
// The codec tables add noticeably to the size of a binary, which is why the
// charset package does not load them itself.
package all

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-headervalue/header/charset"
)

// ErrUnknownCharset is returned when the IANA index has no codec for a
// charset name.
var ErrUnknownCharset = errors.New("charset has no registered codec")

func init() {
	charset.CharsetEncoder = CharsetEncoder
	charset.CharsetDecoder = CharsetDecoder
}

func lookup(cs string) (encoding.Encoding, error) {
	e, err := ianaindex.MIME.Encoding(cs)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownCharset, cs, err)
	}

	// The index knows some names it has no implementation for.
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, cs)
	}
	return e, nil
}

// CharsetEncoder converts s from UTF-8 to the bytes of charset cs.
func CharsetEncoder(cs, s string) ([]byte, error) {
	e, err := lookup(cs)
	if err != nil {
		return nil, err
	}
	return e.NewEncoder().Bytes([]byte(s))
}

// CharsetDecoder converts b, written in charset cs, to UTF-8.
func CharsetDecoder(cs string, b []byte) (string, error) {
	e, err := lookup(cs)
	if err != nil {
		return "", err
	}

	out, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
