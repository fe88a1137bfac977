// Package parser is a recursive descent parser for the field bodies of
// email headers. It follows the grammars of RFC 5322, RFC 2045, RFC 2047,
// and RFC 2231, but accepts a great deal of input those grammars do not,
// recording defects rather than failing.
//
// Each GetX function parses production X from the start of its input and
// returns the token along with the unconsumed rest of the input. When the
// production does not match, it returns a *ParseError and consumes nothing.
// The ParseX functions parse an entire header value. They never fail: any
// text they cannot make sense of is kept in the tree with a defect.
package parser

import (
	"errors"
	"strings"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/encword"
	"github.com/zostay/go-headervalue/header/token"
)

// GetFWS consumes a run of whitespace.
func GetFWS(s string) (*token.Terminal, string) {
	rest := lstrip(s)
	return token.NewSpace(s[:len(s)-len(rest)], token.FWS), rest
}

// GetEncodedWord parses an RFC 2047 encoded word. The decoded text is held
// by terminals of the given kind. A word that is delimited correctly but
// cannot be decoded fails with an error wrapping ErrInvalidEncodedWord.
func GetEncodedWord(s string, k token.Kind) (*token.List, string, error) {
	if !strings.HasPrefix(s, "=?") {
		return nil, s, fail("encoded-word", "expected encoded word but found %s", show(s))
	}

	tok, rest, found := strings.Cut(s[2:], "?=")
	if !found {
		return nil, s, fail("encoded-word", "expected encoded word but found %s", show(s))
	}

	// The ?= may have been the start of a q-encoded =XX escape.
	if len(rest) > 1 && isHexDigit(rest[0]) && isHexDigit(rest[1]) && strings.Count(tok, "?") < 2 {
		more, after, _ := strings.Cut(rest, "?=")
		tok = tok + "?=" + more
		rest = after
	}

	ew := token.NewList(token.EncodedWord)
	if len(strings.Fields(tok)) > 1 {
		ew.AddDefect(defect.Invalidf("whitespace inside encoded word"))
	}
	ew.CTE = s[:len(s)-len(rest)]

	d, err := encword.Decode("=?" + tok + "?=")
	if err != nil {
		return nil, s, &ParseError{Production: "encoded-word", Msg: "encoded word format invalid: " + show(ew.CTE), Err: ErrInvalidEncodedWord}
	}
	ew.Charset = d.Charset
	ew.Lang = d.Lang
	ew.AddDefect(d.Defects...)

	text := d.Text
	for text != "" {
		if isWSP(text) {
			var fws *token.Terminal
			fws, text = GetFWS(text)
			ew.Append(fws)
			continue
		}
		var chars string
		chars, text = splitWSP(text)
		vtext := token.NewValue(chars, k)
		validateXText(vtext)
		ew.Append(vtext)
	}

	if rest != "" && !isWSP(rest) {
		ew.AddDefect(defect.Invalidf("missing trailing whitespace after encoded-word"))
	}
	return ew, rest, nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// GetUnstructured parses unstructured text. It always succeeds and consumes
// all of its input. Encoded words are decoded wherever they appear, and the
// whitespace between two encoded words is marked so that it adds nothing to
// the value.
func GetUnstructured(s string) *token.List {
	u := token.NewList(token.Unstructured)
	for s != "" {
		if isWSP(s) {
			var fws *token.Terminal
			fws, s = GetFWS(s)
			u.Append(fws)
			continue
		}

		validEW := true
		if strings.HasPrefix(s, "=?") {
			ew, rest, err := GetEncodedWord(s, token.UText)
			if err == nil {
				haveWS := true
				if u.Len() > 0 && u.Last().Kind() != token.FWS {
					u.AddDefect(defect.Invalidf("missing whitespace before encoded word"))
					haveWS = false
				}
				if haveWS && u.Len() > 1 && u.At(u.Len()-2).Kind() == token.EncodedWord {
					u.SetAt(u.Len()-1, token.NewEWSpace(u.Last().String(), token.FWS))
				}
				u.Append(ew)
				s = rest
				continue
			}
			if errors.Is(err, ErrInvalidEncodedWord) {
				validEW = false
			}
		}

		tok, rest := splitWSP(s)
		// An encoded word without whitespace around it splits the text. The
		// missing whitespace defect is recorded on the next pass.
		if validEW && rfc2047Matcher.MatchString(tok) {
			if i := strings.Index(s, "=?"); i > 0 {
				tok, rest = s[:i], s[i:]
			}
		}
		vtext := token.NewValue(tok, token.UText)
		validateXText(vtext)
		u.Append(vtext)
		s = rest
	}
	return u
}

// GetQPCText parses comment text up to a parenthesis or whitespace.
// Quoted-pairs are unquoted.
func GetQPCText(s string) (*token.Terminal, string) {
	text, rest, _ := ptextToEndChars(s, "()")
	pt := token.NewSpace(text, token.PText)
	validateXText(pt)
	return pt, rest
}

// GetQContent parses quoted-string text up to a double quote or whitespace.
// Quoted-pairs are unquoted.
func GetQContent(s string) (*token.Terminal, string) {
	text, rest, _ := ptextToEndChars(s, `"`)
	pt := token.NewValue(text, token.PText)
	validateXText(pt)
	return pt, rest
}

// GetAText parses a run of atom characters.
func GetAText(s string) (*token.Terminal, string, error) {
	n := atomEnds.span(s)
	if n == 0 {
		return nil, s, fail("atext", "expected atext but found %s", show(s))
	}
	at := token.NewValue(s[:n], token.AText)
	validateXText(at)
	return at, s[n:], nil
}

// GetBareQuotedString parses a quoted string without surrounding CFWS. A
// missing closing quote is recorded as a defect.
func GetBareQuotedString(s string) (*token.List, string, error) {
	if s == "" || s[0] != '"' {
		return nil, s, fail("bare-quoted-string", `expected '"' but found %s`, show(s))
	}

	bqs := token.NewList(token.BareQuotedString)
	v := s[1:]
	if v != "" && v[0] == '"' {
		var pt *token.Terminal
		pt, v = GetQContent(v)
		bqs.Append(pt)
	}

	for v != "" && v[0] != '"' {
		var t token.Token
		switch {
		case isWSP(v):
			t, v = GetFWS(v)
		case strings.HasPrefix(v, "=?"):
			ew, rest, err := GetEncodedWord(v, token.VText)
			if err != nil {
				t, v = GetQContent(v)
				break
			}
			bqs.AddDefect(defect.Invalidf("encoded word inside quoted string"))
			if bqs.Len() > 1 && bqs.Last().Kind() == token.FWS && bqs.At(bqs.Len()-2).Kind() == token.EncodedWord {
				bqs.SetAt(bqs.Len()-1, token.NewEWSpace(bqs.Last().String(), token.FWS))
			}
			t, v = ew, rest
		default:
			t, v = GetQContent(v)
		}
		bqs.Append(t)
	}

	if v == "" {
		bqs.AddDefect(defect.Invalidf("end of header inside quoted string"))
		return bqs, v, nil
	}
	return bqs, v[1:], nil
}

// GetComment parses a parenthesized comment, which may hold nested
// comments. A missing closing parenthesis is recorded as a defect.
func GetComment(s string) (*token.List, string, error) {
	if s == "" || s[0] != '(' {
		return nil, s, fail("comment", "expected '(' but found %s", show(s))
	}

	c := token.NewList(token.Comment)
	v := s[1:]
	for v != "" && v[0] != ')' {
		switch {
		case isWSP(v):
			var t *token.Terminal
			t, v = GetFWS(v)
			c.Append(t)
		case v[0] == '(':
			nested, rest, _ := GetComment(v)
			c.Append(nested)
			v = rest
		default:
			var t *token.Terminal
			t, v = GetQPCText(v)
			c.Append(t)
		}
	}

	if v == "" {
		c.AddDefect(defect.Invalidf("end of header inside comment"))
		return c, v, nil
	}
	return c, v[1:], nil
}

// GetCFWS parses a run of comments and whitespace. It returns an empty list
// when the input does not start with either.
func GetCFWS(s string) (*token.List, string) {
	cfws := token.NewList(token.CFWS)
	for isCFWSLeader(s) {
		if isWSP(s) {
			var t *token.Terminal
			t, s = GetFWS(s)
			cfws.Append(t)
			continue
		}
		c, rest, _ := GetComment(s)
		cfws.Append(c)
		s = rest
	}
	return cfws, s
}

// optionalCFWS appends any leading CFWS of s to l.
func optionalCFWS(l *token.List, s string) string {
	if !isCFWSLeader(s) {
		return s
	}
	cfws, rest := GetCFWS(s)
	l.Append(cfws)
	return rest
}

// leadingCFWS returns the CFWS at the start of s, or nil if there is none.
func leadingCFWS(s string) (*token.List, string) {
	if !isCFWSLeader(s) {
		return nil, s
	}
	return GetCFWS(s)
}

// GetQuotedString parses a quoted string with optional CFWS on either side.
func GetQuotedString(s string) (*token.List, string, error) {
	qs := token.NewList(token.QuotedString)
	v := optionalCFWS(qs, s)
	bqs, v, err := GetBareQuotedString(v)
	if err != nil {
		return nil, s, err
	}
	qs.Append(bqs)
	v = optionalCFWS(qs, v)
	return qs, v, nil
}

// GetAtom parses an atom with optional CFWS on either side. An encoded word
// is tried first.
func GetAtom(s string) (*token.List, string, error) {
	atom := token.NewList(token.Atom)
	v := optionalCFWS(atom, s)
	if atomEnds.starts(v) {
		return nil, s, fail("atom", "expected atom but found %s", show(v))
	}

	var t token.Token
	ew, rest, err := GetEncodedWord(v, token.VText)
	if err == nil {
		t, v = ew, rest
	} else {
		at, rest, err := GetAText(v)
		if err != nil {
			return nil, s, err
		}
		t, v = at, rest
	}
	atom.Append(t)
	v = optionalCFWS(atom, v)
	return atom, v, nil
}

// GetDotAtomText parses atext separated by single periods.
func GetDotAtomText(s string) (*token.List, string, error) {
	if s == "" || atomEnds.has(s[0]) {
		return nil, s, fail("dot-atom-text", "expected atom at the start of dot-atom-text but found %s", show(s))
	}

	dat := token.NewList(token.DotAtomText)
	v := s
	for v != "" && !atomEnds.has(v[0]) {
		at, rest, err := GetAText(v)
		if err != nil {
			return nil, s, err
		}
		dat.Append(at)
		v = rest
		if v != "" && v[0] == '.' {
			dat.Append(token.NewDot())
			v = v[1:]
		}
	}

	if dat.LastKind(token.Dot) {
		return nil, s, fail("dot-atom-text", "expected atom at end of dot-atom-text but found %s", show("."+v))
	}
	return dat, v, nil
}

// GetDotAtom parses a dot-atom with optional CFWS on either side. An encoded
// word is tried first.
func GetDotAtom(s string) (*token.List, string, error) {
	da := token.NewList(token.DotAtom)
	v := optionalCFWS(da, s)

	var t token.Token
	ew, rest, err := GetEncodedWord(v, token.VText)
	if err == nil {
		t, v = ew, rest
	} else {
		dat, rest, err := GetDotAtomText(v)
		if err != nil {
			return nil, s, err
		}
		t, v = dat, rest
	}
	da.Append(t)
	v = optionalCFWS(da, v)
	return da, v, nil
}

// GetWord parses an atom or a quoted-string. Leading CFWS becomes the first
// child of the returned list.
func GetWord(s string) (*token.List, string, error) {
	leader, v := leadingCFWS(s)
	if v == "" {
		return nil, s, fail("word", "expected atom or quoted-string but found nothing")
	}

	var (
		w   *token.List
		err error
	)
	switch {
	case v[0] == '"':
		w, v, err = GetQuotedString(v)
	case specials.has(v[0]):
		return nil, s, fail("word", "expected atom or quoted-string but found %s", show(v))
	default:
		w, v, err = GetAtom(v)
	}
	if err != nil {
		return nil, s, err
	}

	if leader != nil {
		w.Prepend(leader)
	}
	return w, v, nil
}

// GetPhrase parses a sequence of words. Periods and bare comments are
// accepted as obsolete syntax.
func GetPhrase(s string) (*token.List, string, error) {
	phrase := token.NewList(token.Phrase)
	v := s
	if w, rest, err := GetWord(v); err == nil {
		phrase.Append(w)
		v = rest
	} else {
		phrase.AddDefect(defect.Invalidf("phrase does not start with word"))
	}

	for v != "" && !phraseEnds.has(v[0]) {
		if v[0] == '.' {
			phrase.Append(token.NewDot())
			phrase.AddDefect(defect.Obsoletef("period in 'phrase'"))
			v = v[1:]
			continue
		}

		w, rest, err := GetWord(v)
		if err != nil {
			if !isCFWSLeader(v) {
				return nil, s, err
			}
			w, rest = GetCFWS(v)
			phrase.AddDefect(defect.Obsoletef("comment found without atom"))
		}
		phrase.Append(w)
		v = rest
	}
	return phrase, v, nil
}
