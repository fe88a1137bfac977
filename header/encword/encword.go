// Package encword decodes and encodes RFC 2047 encoded words, the
// =?charset?encoding?text?= runs that carry non-ASCII text in a header.
//
// Unlike mime.WordDecoder, decoding never discards information. Damage to
// an encoded word is reported as defects beside the best text that could be
// recovered, and bytes that do not decode in the named charset are kept.
package encword

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zostay/go-headervalue/header/charset"
	"github.com/zostay/go-headervalue/header/defect"
)

var (
	// ErrFormat is returned by Decode when the text is not shaped like an
	// encoded word or names an encoding other than "q" or "b".
	ErrFormat = errors.New("encoded word format invalid")

	// ErrEncoding is returned by Encode for an encoding other than Q or B.
	ErrEncoding = errors.New("unknown encoded word encoding")
)

// Encoding selects the transfer encoding of an encoded word.
type Encoding byte

const (
	// Auto picks Q unless B is shorter by at least five characters.
	Auto Encoding = 0
	Q    Encoding = 'q'
	B    Encoding = 'b'
)

// Decoded is the result of decoding an encoded word.
type Decoded struct {
	Text    string
	Charset string
	Lang    string
	Defects []*defect.Defect
}

// Decode decodes a complete encoded word, including the =? and ?=
// delimiters. The charset may carry an RFC 2231 language suffix, as in
// "utf-8*en".
func Decode(ew string) (*Decoded, error) {
	parts := strings.Split(ew, "?")
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: %q", ErrFormat, ew)
	}

	cs, lang, _ := strings.Cut(parts[1], "*")
	var (
		b  []byte
		ds []*defect.Defect
	)
	switch strings.ToLower(parts[2]) {
	case "q":
		b = DecodeQ(parts[3])
	case "b":
		b, ds = DecodeB(parts[3])
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ew)
	}

	text, undecodable, err := charset.Decode(cs, b)
	switch {
	case err != nil:
		if !strings.EqualFold(cs, charset.Unknown8Bit) {
			ds = append(ds, defect.New(defect.Charset,
				fmt.Sprintf("unknown charset %q in encoded word; decoded as unknown bytes", cs)))
		}
	case undecodable && !strings.EqualFold(cs, charset.Unknown8Bit):
		ds = append(ds, defect.New(defect.UndecodableBytes,
			fmt.Sprintf("encoded word contains bytes not decodable using %q charset", cs)))
	}

	return &Decoded{Text: text, Charset: cs, Lang: lang, Defects: ds}, nil
}

// DecodeQ decodes the text of a "q" encoded word. Underscores are spaces and
// =XX escapes are bytes. Anything else is taken literally.
func DecodeQ(s string) []byte {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '_':
			b = append(b, ' ')
		case c == '=' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			b = append(b, c)
		}
	}
	return b
}

const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// DecodeB decodes the text of a "b" encoded word. Missing padding,
// characters outside the base64 alphabet, and impossible lengths are
// reported as defects. When the length is impossible, the undecoded text
// is returned.
func DecodeB(s string) ([]byte, []*defect.Defect) {
	padErr := len(s) % 4
	padded := s
	if padErr > 0 {
		padded += "==="[:4-padErr]
	}
	if b, err := base64.StdEncoding.Strict().DecodeString(padded); err == nil && validB64(s) {
		if padErr > 0 {
			return b, []*defect.Defect{defect.New(defect.InvalidBase64Padding, "")}
		}
		return b, nil
	}

	var clean strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '=' || strings.IndexByte(b64Alphabet, s[i]) >= 0 {
			clean.WriteByte(s[i])
		}
	}
	if b, err := base64.StdEncoding.DecodeString(clean.String()); err == nil {
		return b, []*defect.Defect{defect.New(defect.InvalidBase64Characters, "")}
	}

	core := strings.ReplaceAll(clean.String(), "=", "")
	if len(core)%4 != 1 {
		if b, err := base64.RawStdEncoding.DecodeString(core); err == nil {
			return b, []*defect.Defect{
				defect.New(defect.InvalidBase64Characters, ""),
				defect.New(defect.InvalidBase64Padding, ""),
			}
		}
	}

	return []byte(s), []*defect.Defect{defect.New(defect.InvalidBase64Length, "")}
}

func validB64(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' && strings.IndexByte(b64Alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

func qSafe(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
		strings.IndexByte("-!*+/", c) >= 0
}

// QLen returns the length of b once "q" encoded.
func QLen(b []byte) int {
	n := 0
	for _, c := range b {
		if qSafe(c) || c == ' ' {
			n++
		} else {
			n += 3
		}
	}
	return n
}

// BLen returns the length of b once "b" encoded.
func BLen(b []byte) int {
	return (len(b) + 2) / 3 * 4
}

// EncodeQ returns b in the "q" encoding.
func EncodeQ(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == ' ':
			sb.WriteByte('_')
		case qSafe(c):
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "=%02X", c)
		}
	}
	return sb.String()
}

// EncodeB returns b in the "b" encoding.
func EncodeB(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Choose returns the encoding Auto would use for b. Q wins unless B is
// shorter by five or more characters.
func Choose(b []byte) Encoding {
	if QLen(b)-BLen(b) < 5 {
		return Q
	}
	return B
}

// Encode returns text as a single encoded word in the given charset. The
// language, when not empty, is appended to the charset per RFC 2231.
func Encode(text, cs string, enc Encoding, lang string) (string, error) {
	b, err := charset.Encode(cs, text)
	if err != nil {
		return "", err
	}

	if enc == Auto {
		enc = Choose(b)
	}

	var payload string
	switch enc {
	case Q:
		payload = EncodeQ(b)
	case B:
		payload = EncodeB(b)
	default:
		return "", fmt.Errorf("%w: %q", ErrEncoding, string(enc))
	}

	if lang != "" {
		lang = "*" + lang
	}
	return "=?" + cs + lang + "?" + string(enc) + "?" + payload + "?=", nil
}

// EncodedLen returns the full length of text encoded as an encoded word with
// the given charset and encoding, delimiters included.
func EncodedLen(text, cs string, enc Encoding) int {
	b, err := charset.Encode(cs, text)
	if err != nil {
		b = []byte(text)
	}
	if enc == Auto {
		enc = Choose(b)
	}
	n := len(cs) + 7
	if enc == B {
		return n + BLen(b)
	}
	return n + QLen(b)
}
