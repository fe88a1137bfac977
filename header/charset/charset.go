// Package charset converts between Go strings and the byte encodings named
// by the charset of an RFC 2047 encoded word or an RFC 2231 parameter.
//
// Only us-ascii, iso-8859-1, and utf-8 are available by default. To handle
// pretty much any charset found in the wild, import the all package for its
// side effect:
//
//	import _ "github.com/zostay/go-headervalue/header/charset/all"
package charset

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Encoder transforms a string into bytes in the named charset. If the
// charset is not supported, it returns nil bytes and an error.
type Encoder func(charset, s string) ([]byte, error)

// Decoder transforms bytes in the named charset into a string. Bytes that
// are invalid in the source charset should become unicode.ReplacementChar.
// If the charset is not supported, it returns an error.
type Decoder func(charset string, b []byte) (string, error)

var (
	// CharsetEncoder is the Encoder used to turn strings into encoded word
	// bytes. Replace it with your own or import the all package.
	CharsetEncoder Encoder = DefaultCharsetEncoder

	// CharsetDecoder is the Decoder used to turn encoded word and extended
	// parameter bytes into strings. Replace it with your own or import the
	// all package.
	CharsetDecoder Decoder = DefaultCharsetDecoder
)

// Unknown8Bit is the charset label of RFC 7230 opaque bytes. Text in this
// charset is carried through byte for byte.
const Unknown8Bit = "unknown-8bit"

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// DefaultCharsetEncoder handles us-ascii, iso-8859-1, and utf-8. Encoding a
// non-ASCII string as us-ascii or a string with characters outside latin1
// as iso-8859-1 is an error.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		if !isASCII(s) {
			return nil, fmt.Errorf("string cannot be encoded as %q", charset)
		}
		return []byte(s), nil
	case "iso-8859-1", "latin1":
		b := make([]byte, 0, len(s))
		for _, c := range s {
			if c > unicode.MaxLatin1 {
				return nil, fmt.Errorf("string cannot be encoded as %q", charset)
			}
			b = append(b, byte(c))
		}
		return b, nil
	case "utf-8", "utf8":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// DefaultCharsetDecoder handles us-ascii, iso-8859-1, and utf-8.
//
// Any 8-bit byte in us-ascii input and any invalid sequence in utf-8 input
// becomes unicode.ReplacementChar.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		var s strings.Builder
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
		return s.String(), nil
	case "iso-8859-1", "latin1":
		var s strings.Builder
		for _, c := range b {
			s.WriteRune(rune(c))
		}
		return s.String(), nil
	case "utf-8", "utf8":
		var s strings.Builder
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
		return s.String(), nil
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

// Decode turns b into a string without losing bytes. When b is us-ascii or
// utf-8 that does not validate, or when the charset is unknown, the raw bytes
// are kept as they are and undecodable is true. The error is only set for an
// unknown charset.
func Decode(charset string, b []byte) (s string, undecodable bool, err error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		return string(b), !isASCII(string(b)), nil
	case "utf-8", "utf8":
		return string(b), !utf8.Valid(b), nil
	case Unknown8Bit:
		return string(b), !isASCII(string(b)), nil
	}

	s, err = CharsetDecoder(charset, b)
	if err != nil {
		return string(b), !isASCII(string(b)), err
	}
	return s, false, nil
}

// Encode turns s into bytes in the named charset. The unknown-8bit charset
// passes the bytes of s through unchanged.
func Encode(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", Unknown8Bit:
		return []byte(s), nil
	}
	return CharsetEncoder(charset, s)
}

// CanEncode reports whether s is representable in the named charset.
func CanEncode(charset, s string) bool {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		return isASCII(s)
	case "utf-8", "utf8":
		return utf8.ValidString(s)
	case Unknown8Bit:
		return true
	}
	_, err := CharsetEncoder(charset, s)
	return err == nil
}

// IsASCII reports whether every byte of s is 7-bit.
func IsASCII(s string) bool { return isASCII(s) }
