package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/token"
)

type charSet [256]bool

func newSet(chars ...string) *charSet {
	var cs charSet
	for _, s := range chars {
		for i := 0; i < len(s); i++ {
			cs[s[i]] = true
		}
	}
	return &cs
}

func (cs *charSet) without(chars string) *charSet {
	n := *cs
	for i := 0; i < len(chars); i++ {
		n[chars[i]] = false
	}
	return &n
}

func (cs *charSet) has(c byte) bool { return cs[c] }

// starts reports whether s is not empty and starts with a member of cs.
func (cs *charSet) starts(s string) bool {
	return s != "" && cs[s[0]]
}

// span returns the length of the longest prefix of s holding no member of
// cs.
func (cs *charSet) span(s string) int {
	for i := 0; i < len(s); i++ {
		if cs[s[i]] {
			return i
		}
	}
	return len(s)
}

const (
	wspChars      = " \t"
	specialsChars = `()<>@,:;.\"[]`
)

// Character classes of RFC 5322, RFC 2045, and RFC 2231.
var (
	wsp        = newSet(wspChars)
	cfwsLeader = newSet(wspChars, "(")
	specials   = newSet(specialsChars)
	atomEnds   = newSet(specialsChars, wspChars)

	phraseEnds  = specials.without(`."(`)

	tokenEnds = newSet(specialsChars, "/?=", wspChars).without(".")

	attributeEnds         = newSet(specialsChars, "/?=*'%", wspChars).without(".")
	extendedAttributeEnds = attributeEnds.without("%")

	digits = newSet("0123456789")
)

var rfc2047Matcher = regexp.MustCompile(`=\?[^?]*\?[qQbB]\?.*?\?=`)

func isWSP(s string) bool { return wsp.starts(s) }

func isCFWSLeader(s string) bool { return cfwsLeader.starts(s) }

func lstrip(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// validateXText records a defect on t for each ASCII control character or
// undecodable byte in its text.
func validateXText(t *token.Terminal) {
	var np []string
	s := t.Text()
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= 0x20 || c == 0x7f {
			np = append(np, string(c))
		}
	}
	if len(np) > 0 {
		t.AddDefect(defect.New(defect.NonPrintable, strings.Join(np, ", ")))
	}
	if !utf8.ValidString(s) {
		t.AddDefect(defect.New(defect.UndecodableBytes, "non-ASCII characters found in header token"))
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !digits.has(s[i]) {
			return false
		}
	}
	return true
}

// splitWSP splits s at the start of its first run of whitespace.
func splitWSP(s string) (string, string) {
	i := wsp.span(s)
	return s[:i], s[i:]
}

// ptextToEndChars scans printables and quoted-pairs up to the first of one
// of endchars or whitespace. It returns the text with quoted-pairs
// unquoted, the unscanned remainder, and whether any quoted-pair was seen.
func ptextToEndChars(s, endchars string) (string, string, bool) {
	if s == "" {
		return "", "", false
	}
	frag, rest := splitWSP(s)
	var sb strings.Builder
	escape, hadQP := false, false
	pos := 0
	for ; pos < len(frag); pos++ {
		c := frag[pos]
		if c == '\\' && !escape {
			escape = true
			continue
		}
		if escape {
			escape = false
			hadQP = true
		} else if strings.IndexByte(endchars, c) >= 0 {
			break
		}
		sb.WriteByte(c)
	}
	return sb.String(), frag[pos:] + rest, hadQP
}
