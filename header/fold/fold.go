// Package fold lays a parsed header value out into lines no longer than a
// Policy allows. Folds are only placed at syntactic break points, text that
// cannot be carried as-is is wrapped in RFC 2047 encoded words, and long MIME
// parameters are split into RFC 2231 sections.
//
// The output of Fold always parses back to a tree with the same semantic
// value as the input.
package fold

import (
	"fmt"
	"math"
	"strings"

	"github.com/zostay/go-headervalue/header/charset"
	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/encword"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

const (
	unbounded = math.MaxInt32

	// specialsNL are the characters that force a ptext or vtext part to be
	// encoded, since they would otherwise change the meaning of a phrase.
	specialsNL = `()<>@,:;.\"[]` + "\r\n"
)

// endBlocked is queued after the children of a list that forbids encoded
// words. Reaching it lifts the restriction.
var endBlocked = token.NewBlocked("", token.Generic)

// Fold renders t as folded lines according to p. Each line, including the
// last, ends with p.LineSeparator. When p is nil, DefaultPolicy is used.
func Fold(t token.Token, p *Policy) (string, error) {
	if p == nil {
		p = DefaultPolicy
	}

	if err := p.Validate(); err != nil {
		return "", err
	}

	return refold(t, p)
}

// FoldField renders a complete header field: the name, a colon, a single
// space, and the folded value. When p is nil, DefaultPolicy is used.
func FoldField(name string, t token.Token, p *Policy) (string, error) {
	h := token.NewList(token.Header,
		token.NewList(token.HeaderLabel,
			token.NewValue(name, token.HeaderName),
			token.NewValue(":", token.HeaderSep),
		),
	)

	if hasContent(t) {
		h.Append(
			token.NewList(token.CFWS, token.NewSpace(" ", token.FWS)),
			t,
		)
	}

	return Fold(h, p)
}

func hasContent(t token.Token) bool {
	switch v := t.(type) {
	case nil:
		return false
	case *token.List:
		return v != nil && v.Len() > 0
	case *token.Terminal:
		return v != nil && v.Text() != ""
	}
	return t.String() != ""
}

// folder holds the output lines while a tree is being laid out.
type folder struct {
	maxlen int
	lines  []string
}

func (f *folder) last() string { return f.lines[len(f.lines)-1] }

func (f *folder) setLast(s string) { f.lines[len(f.lines)-1] = s }

func (f *folder) appendLast(s string) { f.lines[len(f.lines)-1] += s }

func (f *folder) newLine(s string) { f.lines = append(f.lines, s) }

// room returns the number of characters that still fit on the last line.
func (f *folder) room() int { return f.maxlen - width(f.last()) }

// stealWSP removes a trailing space or tab from the last line and returns
// it, so it can begin the next line as folding whitespace.
func (f *folder) stealWSP() string {
	last := f.last()
	if last != "" && isWSPByte(last[len(last)-1]) {
		f.setLast(last[:len(last)-1])
		return last[len(last)-1:]
	}
	return ""
}

// leadingWSP returns the whitespace the last line starts with.
func (f *folder) leadingWSP() string {
	last := f.last()
	i := 0
	for i < len(last) && isWSPByte(last[i]) {
		i++
	}
	return last[:i]
}

func children(t token.Token) []token.Token {
	if l, ok := t.(*token.List); ok {
		return append([]token.Token(nil), l.Children()...)
	}
	return []token.Token{t}
}

func prepend(parts []token.Token, ts ...token.Token) []token.Token {
	out := make([]token.Token, 0, len(ts)+len(parts))
	out = append(out, ts...)
	return append(out, parts...)
}

// refold walks the children of tree breadth first, only descending into a
// list when it cannot be placed whole.
func refold(tree token.Token, p *Policy) (string, error) {
	f := &folder{
		maxlen: p.maxLen(),
		lines:  []string{""},
	}

	encoding := p.encoding()

	var (
		leadingWS    string
		lastEW       = -1
		lastCharset  string
		blocked      int
		wantEncoding bool
	)

	parts := children(tree)
	for len(parts) > 0 {
		part := parts[0]
		parts = parts[1:]

		if part == token.Token(endBlocked) {
			blocked--
			continue
		}

		tstr := part.Rendered()
		if _, ok := part.(*token.Terminal); ok && tstr == "" {
			continue
		}

		if !wantEncoding {
			if k := part.Kind(); k == token.PText || k == token.VText {
				wantEncoding = strings.ContainsAny(tstr, specialsNL)
			} else {
				wantEncoding = strings.ContainsAny(tstr, "\r\n")
			}
		}

		cs := encoding
		if !charset.CanEncode(encoding, tstr) {
			if defect.Has(part.AllDefects(), defect.UndecodableBytes) {
				cs = charset.Unknown8Bit
			} else {
				cs = "utf-8"
			}
			wantEncoding = true
		}

		if mp, ok := part.(*token.List); ok && mp.Kind() == token.MIMEParameters {
			f.foldParams(mp, encoding)
			continue
		}

		if wantEncoding && blocked == 0 {
			if !part.EWAllowed() {
				wantEncoding = false
				lastEW = -1
				if part.SyntacticBreak() {
					folded, err := foldPart(part, p)
					if err != nil {
						return "", err
					}

					if !strings.Contains(folded, p.LineSeparator) {
						if width(folded) > f.room() {
							f.newLine(f.stealWSP())
						}
						f.appendLast(folded)
						continue
					}
				}
			}

			if l, ok := part.(*token.List); ok {
				wantEncoding = false
				parts = prepend(parts, l.Children()...)
				continue
			}

			if part.EWAllowed() {
				if lastEW >= 0 && cs != lastCharset &&
					(lastCharset == charset.Unknown8Bit || (lastCharset == "utf-8" && cs != "us-ascii")) {
					lastEW = -1
				}

				var err error
				lastEW, err = f.foldAsEW(tstr, lastEW, part.EWCombineAllowed(), cs, leadingWS)
				if err != nil {
					return "", err
				}

				leadingWS = ""
				lastCharset = cs
				wantEncoding = false
				continue
			}

			lastEW = -1
			wantEncoding = false
		}

		// A decoded encoded word holding specials may not be written out as
		// plain text, so the list is opened up until that word is reached.
		if l, ok := part.(*token.List); ok && blocked == 0 && hasSpecialEW(l) {
			parts = prepend(parts, l.Children()...)
			continue
		}

		if width(tstr) <= f.room() {
			f.appendLast(tstr)
			continue
		}

		leadingWS = ""
		if part.SyntacticBreak() && width(tstr)+1 <= f.maxlen {
			nl := f.stealWSP()
			if nl != "" || part.StartsWithFWS() {
				f.newLine(nl + tstr)
				leadingWS = f.leadingWSP()
				lastEW = -1
				continue
			}
		}

		if l, ok := part.(*token.List); ok && !part.Kind().IsMsgID() {
			var np []token.Token
			if l.Kind() == token.BareQuotedString {
				np = append(np, token.NewBlocked(`"`, token.DQuote))
				for _, c := range l.Children() {
					np = append(np, token.NewValue(token.MakeQuotedPairs(c.Rendered(), `\"`), token.QuotedText))
				}
				np = append(np, token.NewBlocked(`"`, token.DQuote))
			} else {
				np = append(np, l.Children()...)
			}

			if !l.EWAllowed() {
				blocked++
				np = append(np, endBlocked)
			}

			parts = prepend(parts, np...)
			continue
		}

		if part.EWAllowed() && blocked == 0 && !part.Kind().IsMsgID() {
			parts = prepend(parts, part)
			wantEncoding = true
			continue
		}

		nl := f.stealWSP()
		if nl != "" || part.StartsWithFWS() {
			f.newLine(nl + tstr)
		} else {
			f.appendLast(tstr)
		}
		lastEW = -1
	}

	sep := p.LineSeparator
	return strings.Join(f.lines, sep) + sep, nil
}

// hasSpecialEW reports whether l holds an encoded word whose decoded text
// contains specials. Unstructured text, quoted strings, addr-specs, and
// message IDs are not searched.
func hasSpecialEW(l *token.List) bool {
	switch k := l.Kind(); {
	case k == token.EncodedWord:
		return strings.ContainsAny(l.Rendered(), specialsNL)
	case k == token.Unstructured, k == token.BareQuotedString, k == token.QuotedString,
		k == token.AddrSpec, k.IsMsgID():
		return false
	}

	for _, c := range l.Children() {
		if cl, ok := c.(*token.List); ok && hasSpecialEW(cl) {
			return true
		}
	}
	return false
}

// foldPart folds a token that may not be encoded on its own, returning the
// folded text without the final line separator. Message IDs are never
// folded.
func foldPart(t token.Token, p *Policy) (string, error) {
	if _, ok := t.(*token.Terminal); ok || t.Kind().IsMsgID() {
		return t.Rendered(), nil
	}

	s, err := refold(t, p)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, p.LineSeparator), nil
}

// foldAsEW appends toEncode to the lines as one or more encoded words in
// the given charset. When lastEW is an offset into the last line and
// combining is allowed, the encoded words found there are decoded and
// re-encoded together with toEncode. It returns the offset of the encoded
// words that were written, or -1 if they may not be combined with later
// text.
func (f *folder) foldAsEW(
	toEncode string,
	lastEW int,
	combine bool,
	cs string,
	leadingWS string,
) (int, error) {
	if lastEW > len(f.last()) {
		lastEW = -1
	}

	if lastEW >= 0 && combine {
		last := f.last()
		toEncode = parser.GetUnstructured(last[lastEW:] + toEncode).Rendered()
		f.setLast(last[:lastEW])
	} else if toEncode != "" && isWSPByte(toEncode[0]) {
		lead := toEncode[:1]
		toEncode = toEncode[1:]
		if f.room() <= 0 {
			f.newLine(f.stealWSP())
		}
		f.appendLast(lead)
	}

	trailing := ""
	if toEncode != "" && isWSPByte(toEncode[len(toEncode)-1]) {
		trailing = toEncode[len(toEncode)-1:]
		toEncode = toEncode[:len(toEncode)-1]
	}

	newLastEW := lastEW
	if lastEW < 0 {
		newLastEW = len(f.last())
	}

	encodeAs := cs
	if cs == "us-ascii" {
		encodeAs = "utf-8"
	}

	chrome := len(encodeAs) + 7
	if chrome+1 >= f.maxlen {
		return -1, fmt.Errorf("%w: %d for charset %s", ErrLineLengthTooShort, f.maxlen, encodeAs)
	}

	units := splitChars(toEncode)
	for len(units) > 0 {
		if len(f.lines) > 1 && f.last() == " " && leadingWS != "" {
			ew, err := encword.Encode(leadingWS, encodeAs, encword.Auto, "")
			if err != nil {
				return -1, err
			}
			f.appendLast(ew)
			leadingWS = ""
			continue
		}

		remaining := f.room()
		textSpace := remaining - chrome - width(leadingWS)
		if textSpace <= 0 {
			if f.last() == " " {
				leadingWS = ""
			} else {
				f.newLine(" ")
			}
			continue
		}

		n := fitEncoded(units, textSpace, remaining, encodeAs)
		if n == 0 {
			if f.last() != " " {
				f.newLine(" ")
				continue
			}
			n = 1
		}

		ew, err := encword.Encode(strings.Join(units[:n], ""), encodeAs, encword.Auto, "")
		if err != nil {
			return -1, err
		}

		f.appendLast(ew)
		units = units[n:]
		leadingWS = ""
		if len(units) > 0 {
			f.newLine(" ")
			newLastEW = 1
		}
	}

	f.appendLast(trailing)
	if combine {
		return newLastEW, nil
	}
	return -1, nil
}

// fitEncoded returns the largest count of units, no more than limit, whose
// encoded word fits in room characters.
func fitEncoded(units []string, limit, room int, cs string) int {
	hi := len(units)
	if limit < hi {
		hi = limit
	}

	fits := func(n int) bool {
		return encword.EncodedLen(strings.Join(units[:n], ""), cs, encword.Auto) <= room
	}

	lo := 0
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
