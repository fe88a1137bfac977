package parser

import (
	"strconv"
	"strings"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/token"
)

// ParseMIMEVersion parses the value of a MIME-Version header, digits "."
// digits with CFWS allowed around each part.
func ParseMIMEVersion(s string) *token.List {
	mv := token.NewList(token.MIMEVersion)
	if s == "" {
		mv.AddDefect(defect.New(defect.MissingRequiredValue, "missing MIME version number (eg: 1.0)"))
		return mv
	}

	v := s
	if isCFWSLeader(v) {
		v = optionalCFWS(mv, v)
		if v == "" {
			mv.AddDefect(defect.New(defect.MissingRequiredValue, "expected MIME version number but found only CFWS"))
		}
	}

	n := 0
	for n < len(v) && v[n] != '.' && !cfwsLeader.has(v[n]) {
		n++
	}
	major := v[:n]
	v = v[n:]
	if num, err := strconv.Atoi(major); err == nil && allDigits(major) {
		mv.Major, mv.HasMajor = num, true
		mv.Append(token.NewValue(major, token.Digits))
	} else {
		mv.AddDefect(defect.Invalidf("expected MIME major version number but found %q", major))
		mv.Append(token.NewValue(major, token.XText))
	}

	v = optionalCFWS(mv, v)
	if v == "" || v[0] != '.' {
		if mv.HasMajor {
			mv.AddDefect(defect.Invalidf("incomplete MIME version; found only major number"))
		}
		if v != "" {
			mv.Append(token.NewValue(v, token.XText))
		}
		return mv
	}
	mv.Append(token.NewValue(".", token.VersionSeparator))
	v = optionalCFWS(mv, v[1:])
	if v == "" {
		if mv.HasMajor {
			mv.AddDefect(defect.Invalidf("incomplete MIME version; found only major number"))
		}
		return mv
	}

	n = cfwsLeader.span(v)
	minor := v[:n]
	v = v[n:]
	if num, err := strconv.Atoi(minor); err == nil && allDigits(minor) {
		mv.Minor, mv.HasMinor = num, true
		mv.Append(token.NewValue(minor, token.Digits))
	} else {
		mv.AddDefect(defect.Invalidf("expected MIME minor version number but found %q", minor))
		mv.Append(token.NewValue(minor, token.XText))
	}

	v = optionalCFWS(mv, v)
	if v != "" {
		mv.AddDefect(defect.Invalidf("excess non-CFWS text after MIME version"))
		mv.Append(token.NewValue(v, token.XText))
	}
	return mv
}

// GetInvalidParameter captures text up to the next semicolon as an
// invalid-parameter. It always succeeds.
func GetInvalidParameter(s string) (*token.List, string) {
	ip := token.NewList(token.InvalidParameter)
	return ip, captureInvalid(ip, s, ";")
}

// GetTText parses a run of MIME token characters.
func GetTText(s string) (*token.Terminal, string, error) {
	n := tokenEnds.span(s)
	if n == 0 {
		return nil, s, fail("ttext", "expected ttext but found %s", show(s))
	}
	t := token.NewValue(s[:n], token.TText)
	validateXText(t)
	return t, s[n:], nil
}

// GetToken parses a MIME token with optional CFWS on either side.
func GetToken(s string) (*token.List, string, error) {
	mt := token.NewList(token.MIMEToken)
	v := optionalCFWS(mt, s)
	if tokenEnds.starts(v) {
		return nil, s, fail("token", "expected token but found %s", show(v))
	}
	tt, v, err := GetTText(v)
	if err != nil {
		return nil, s, err
	}
	mt.Append(tt)
	v = optionalCFWS(mt, v)
	return mt, v, nil
}

// GetAttrText parses a run of RFC 2231 attribute characters.
func GetAttrText(s string) (*token.Terminal, string, error) {
	n := attributeEnds.span(s)
	if n == 0 {
		return nil, s, fail("attrtext", "expected attrtext but found %s", show(s))
	}
	t := token.NewValue(s[:n], token.AttrText)
	validateXText(t)
	return t, s[n:], nil
}

// GetAttribute parses a parameter name with optional CFWS on either side.
func GetAttribute(s string) (*token.List, string, error) {
	return getAttribute(s, "attribute", attributeEnds, GetAttrText)
}

// GetExtendedAttrText parses attribute characters and percent signs, the
// text of an RFC 2231 extended value.
func GetExtendedAttrText(s string) (*token.Terminal, string, error) {
	n := extendedAttributeEnds.span(s)
	if n == 0 {
		return nil, s, fail("extended-attrtext", "expected extended attrtext but found %s", show(s))
	}
	t := token.NewValue(s[:n], token.ExtendedAttrText)
	validateXText(t)
	return t, s[n:], nil
}

// GetExtendedAttribute parses extended attribute text with optional CFWS on
// either side.
func GetExtendedAttribute(s string) (*token.List, string, error) {
	return getAttribute(s, "extended-attribute", extendedAttributeEnds, GetExtendedAttrText)
}

func getAttribute(
	s, prod string,
	ends *charSet,
	text func(string) (*token.Terminal, string, error),
) (*token.List, string, error) {
	a := token.NewList(token.Attribute)
	v := optionalCFWS(a, s)
	if ends.starts(v) {
		return nil, s, fail(prod, "expected token but found %s", show(v))
	}
	t, v, err := text(v)
	if err != nil {
		return nil, s, err
	}
	a.Append(t)
	v = optionalCFWS(a, v)
	return a, v, nil
}

// GetSection parses an RFC 2231 section marker, "*" followed by digits.
func GetSection(s string) (*token.List, string, error) {
	if s == "" || s[0] != '*' {
		return nil, s, fail("section", "expected section but found %s", show(s))
	}
	v := s[1:]
	if !digits.starts(v) {
		return nil, s, fail("section", "expected section number but found %s", show(v))
	}
	n := 0
	for n < len(v) && digits.has(v[n]) {
		n++
	}
	ds := v[:n]

	sec := token.NewList(token.Section, token.NewValue("*", token.SectionMarker))
	if ds[0] == '0' && ds != "0" {
		sec.AddDefect(defect.Invalidf("section number has an invalid leading 0"))
	}
	num, err := strconv.Atoi(ds)
	if err != nil {
		return nil, s, &ParseError{Production: "section", Msg: "section number out of range", Err: err}
	}
	sec.Number = num
	sec.Append(token.NewValue(ds, token.Digits))
	return sec, v[n:], nil
}

// GetValue parses a parameter value, a quoted-string or extended attribute
// text, with optional leading CFWS.
func GetValue(s string) (*token.List, string, error) {
	if s == "" {
		return nil, s, fail("value", "expected value but found end of string")
	}
	leader, v := leadingCFWS(s)
	if v == "" {
		return nil, s, fail("value", "expected value but found only %s", show(leader.String()))
	}

	var (
		t   *token.List
		err error
	)
	if v[0] == '"' {
		t, v, err = GetQuotedString(v)
	} else {
		t, v, err = GetExtendedAttribute(v)
	}
	if err != nil {
		return nil, s, err
	}
	if leader != nil {
		t.Prepend(leader)
	}
	return token.NewList(token.Value, t), v, nil
}

// GetParameter parses a single MIME parameter, including the RFC 2231
// section and extended markers and the charset and language prefix of an
// extended initial section.
//
// Quoted extended values are common in the wild even though RFC 2231 does
// not allow them. When the quoted text looks like an extended value, it is
// parsed as one with a defect. Otherwise the quoted value is used as it is.
func GetParameter(s string) (*token.List, string, error) {
	p := token.NewList(token.Parameter)
	attr, v, err := GetAttribute(s)
	if err != nil {
		return nil, s, err
	}
	p.Append(attr)
	if v == "" || v[0] == ';' {
		p.AddDefect(defect.Invalidf("parameter contains name (%s) but no value", attr.String()))
		return p, v, nil
	}

	if v[0] == '*' {
		if sec, rest, err := GetSection(v); err == nil {
			p.Sectioned = true
			p.Append(sec)
			v = rest
		}
		if v == "" {
			return nil, s, fail("parameter", "incomplete parameter")
		}
		if v[0] == '*' {
			p.Append(token.NewValue("*", token.ExtendedMarker))
			p.Extended = true
			v = v[1:]
		}
	}
	if v == "" || v[0] != '=' {
		return nil, s, fail("parameter", "parameter not followed by '='")
	}
	p.Append(token.NewValue("=", token.ParameterSeparator))
	v = optionalCFWS(p, v[1:])

	var (
		remainder    string
		hasRemainder bool
		appendTo     = p
	)
	if p.Extended && v != "" && v[0] == '"' {
		qs, rest, err := GetQuotedString(v)
		if err != nil {
			return nil, s, err
		}
		inner := qs.StrippedValue()
		semiValid := false
		if p.SectionNumber() == 0 {
			if inner != "" && inner[0] == '\'' {
				semiValid = true
			} else {
				_, after, err := GetAttrText(inner)
				if err != nil {
					return nil, s, err
				}
				if after != "" && after[0] == '\'' {
					semiValid = true
				}
			}
		} else if _, after, err := GetExtendedAttrText(inner); err == nil && after == "" {
			semiValid = true
		}

		if semiValid {
			p.AddDefect(defect.Invalidf("quoted string value for extended parameter is invalid"))
			p.Append(qs)
			for _, c := range qs.Children() {
				if bqs, ok := c.(*token.List); ok && bqs.Kind() == token.BareQuotedString {
					bqs.Reset()
					appendTo = bqs
					break
				}
			}
			v = inner
			remainder, hasRemainder = rest, true
		} else {
			p.AddDefect(defect.Invalidf("parameter marked as extended but appears to have a quoted string value that is non-encoded"))
		}
	}

	var t *token.List
	if v == "" || v[0] != '\'' {
		t, v, err = GetValue(v)
		if err != nil {
			return nil, s, err
		}
	}

	if !p.Extended || p.SectionNumber() > 0 {
		if v == "" || v[0] != '\'' {
			if t != nil {
				appendTo.Append(t)
			}
			if hasRemainder {
				v = remainder
			}
			return p, v, nil
		}
		p.AddDefect(defect.Invalidf("apparent initial-extended-value but attribute was not marked as extended or was not initial section"))
	}

	if v == "" {
		// The charset and language are missing, so the text is the value.
		p.AddDefect(defect.Invalidf("missing required charset/lang delimiters"))
		if t != nil {
			appendTo.Append(t)
		}
		if !hasRemainder {
			return p, v, nil
		}
	} else {
		if t != nil && t.Len() > 0 {
			cs := t.Last()
			appendTo.Append(cs)
			p.Charset = cs.Value()
		}
		if v[0] != '\'' {
			return nil, s, fail("parameter", "expected RFC2231 char/lang encoding delimiter, but found %s", show(v))
		}
		appendTo.Append(token.NewValue("'", token.RFC2231Delimiter))
		v = v[1:]
		if v != "" && v[0] != '\'' {
			lang, rest, err := GetAttrText(v)
			if err != nil {
				return nil, s, err
			}
			appendTo.Append(lang)
			p.Lang = lang.Value()
			v = rest
			if v == "" || v[0] != '\'' {
				return nil, s, fail("parameter", "expected RFC2231 char/lang encoding delimiter, but found %s", show(v))
			}
		}
		if v == "" {
			return nil, s, fail("parameter", "expected RFC2231 char/lang encoding delimiter, but found %s", show(v))
		}
		appendTo.Append(token.NewValue("'", token.RFC2231Delimiter))
		v = v[1:]
	}

	if hasRemainder {
		// What is left of the quoted text is bare quoted-string content.
		val := token.NewList(token.Value)
		for v != "" {
			switch {
			case isWSP(v):
				var fws *token.Terminal
				fws, v = GetFWS(v)
				val.Append(fws)
			case v[0] == '"':
				val.Append(token.NewValue(`"`, token.DQuote))
				v = v[1:]
			default:
				var qc *token.Terminal
				qc, v = GetQContent(v)
				val.Append(qc)
			}
		}
		appendTo.Append(val)
		return p, remainder, nil
	}

	t, v, err = GetValue(v)
	if err != nil {
		return nil, s, err
	}
	appendTo.Append(t)
	return p, v, nil
}

// ParseMIMEParameters parses a semicolon separated parameter list. It always
// succeeds and consumes all of its input. The decoded parameters are
// available from the Params method of the result.
func ParseMIMEParameters(s string) *token.List {
	mp := token.NewList(token.MIMEParameters)
	v := s
	for v != "" {
		p, rest, err := GetParameter(v)
		if err == nil {
			mp.Append(p)
			v = rest
		} else {
			leader, rest := leadingCFWS(v)
			v = rest
			switch {
			case v == "":
				if leader != nil {
					mp.Append(leader)
				}
				mp.Params()
				return mp
			case v[0] == ';':
				if leader != nil {
					mp.Append(leader)
				}
				mp.AddDefect(defect.Invalidf("parameter entry with no content"))
			default:
				ip, rest := GetInvalidParameter(v)
				if leader != nil {
					ip.Prepend(leader)
				}
				mp.Append(ip)
				mp.AddDefect(defect.Invalidf("invalid parameter %q", ip.String()))
				v = rest
			}
		}

		if v != "" && v[0] != ';' {
			// Junk after an otherwise valid parameter.
			ip, rest := GetInvalidParameter(v)
			if last, ok := mp.Last().(*token.List); ok {
				last.Retag(token.InvalidParameter)
				last.Extend(ip)
			} else {
				mp.Append(ip)
			}
			mp.AddDefect(defect.Invalidf("parameter with invalid trailing text %q", ip.String()))
			v = rest
		}
		if v != "" {
			mp.Append(token.NewValue(";", token.ParameterSeparator))
			v = v[1:]
		}
	}

	// Assemble the parameters now so that their defects are recorded.
	mp.Params()
	return mp
}

// findMIMEParameters does its best to find parameters in the rest of an
// invalid MIME header.
func findMIMEParameters(l *token.List, s string) {
	s = captureInvalid(l, s, ";")
	if s == "" {
		return
	}
	l.Append(token.NewValue(";", token.ParameterSeparator))
	l.Append(ParseMIMEParameters(s[1:]))
}

func lowerValue(t token.Token) string {
	return strings.ToLower(trimSpace(t.Value()))
}

func trimSpace(s string) string {
	return strings.Trim(s, " \t\r\n\v\f")
}

// ParseContentType parses the value of a Content-Type header. The
// lower-cased media type is cached in the Maintype and Subtype fields of the
// result. A syntactically invalid value is treated as text/plain, except that
// a valid maintype is kept when only the subtype is missing or malformed.
func ParseContentType(s string) *token.List {
	ct := token.NewList(token.ContentType)
	if s == "" {
		ct.AddDefect(defect.New(defect.MissingRequiredValue, "missing content type specification"))
		return ct
	}

	mt, v, err := GetToken(s)
	if err != nil {
		ct.AddDefect(defect.Invalidf("expected content maintype but found %q", s))
		findMIMEParameters(ct, s)
		return ct
	}
	ct.Append(mt)
	if v == "" || v[0] != '/' {
		ct.AddDefect(defect.Invalidf("invalid content type"))
		if v != "" {
			findMIMEParameters(ct, v)
		}
		return ct
	}
	ct.Maintype = lowerValue(mt)
	ct.Append(token.NewValue("/", token.ContentTypeSep))
	v = v[1:]

	st, rest, err := GetToken(v)
	if err != nil {
		ct.AddDefect(defect.Invalidf("expected content subtype but found %q", v))
		findMIMEParameters(ct, v)
		return ct
	}
	ct.Append(st)
	ct.Subtype = lowerValue(st)
	v = rest
	if v == "" {
		return ct
	}

	if v[0] != ';' {
		ct.AddDefect(defect.Invalidf("only parameters are valid after content type, but found %q", v))
		// RFC 2045 says an invalid content-type is text/plain.
		ct.Maintype, ct.Subtype = "text", "plain"
		findMIMEParameters(ct, v)
		return ct
	}
	ct.Append(token.NewValue(";", token.ParameterSeparator))
	ct.Append(ParseMIMEParameters(v[1:]))
	return ct
}

// ParseContentDisposition parses the value of a Content-Disposition header.
// The lower-cased disposition type is cached in the ContentDisposition field
// of the result.
func ParseContentDisposition(s string) *token.List {
	cd := token.NewList(token.ContentDisposition)
	if s == "" {
		cd.AddDefect(defect.New(defect.MissingRequiredValue, "missing content disposition"))
		return cd
	}

	dt, v, err := GetToken(s)
	if err != nil {
		cd.AddDefect(defect.Invalidf("expected content disposition but found %q", s))
		findMIMEParameters(cd, s)
		return cd
	}
	cd.Append(dt)
	cd.ContentDisposition = lowerValue(dt)
	if v == "" {
		return cd
	}

	if v[0] != ';' {
		cd.AddDefect(defect.Invalidf("only parameters are valid after content disposition, but found %q", v))
		findMIMEParameters(cd, v)
		return cd
	}
	cd.Append(token.NewValue(";", token.ParameterSeparator))
	cd.Append(ParseMIMEParameters(v[1:]))
	return cd
}

// ParseContentTransferEncoding parses the value of a
// Content-Transfer-Encoding header. The lower-cased mechanism is cached in
// the CTE field of the result, which defaults to 7bit.
func ParseContentTransferEncoding(s string) *token.List {
	cte := token.NewList(token.ContentTransferEncoding)
	if s == "" {
		cte.AddDefect(defect.New(defect.MissingRequiredValue, "missing content transfer encoding"))
		return cte
	}

	v := s
	if mech, rest, err := GetToken(s); err == nil {
		cte.Append(mech)
		cte.CTE = lowerValue(mech)
		v = rest
	} else {
		cte.AddDefect(defect.Invalidf("expected content transfer encoding but found %q", s))
	}

	if v != "" {
		cte.AddDefect(defect.Invalidf("extra text after content transfer encoding"))
		captureInvalid(cte, v, "")
	}
	return cte
}
