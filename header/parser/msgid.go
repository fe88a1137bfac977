package parser

import (
	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/token"
)

// GetNoFoldLiteral parses "[" dtext "]" as used in the id-right of a
// msg-id.
func GetNoFoldLiteral(s string) (*token.List, string, error) {
	if s == "" {
		return nil, s, fail("no-fold-literal", "expected no-fold-literal but found %s", show(s))
	}
	if s[0] != '[' {
		return nil, s, fail("no-fold-literal", "expected '[' at the start of no-fold-literal but found %s", show(s))
	}
	nfl := token.NewList(token.NoFoldLiteral, token.NewValue("[", token.NoFoldLiteralStart))
	dt, v := GetDText(s[1:])
	nfl.Append(dt)
	if v == "" || v[0] != ']' {
		return nil, s, fail("no-fold-literal", "expected ']' at the end of no-fold-literal but found %s", show(v))
	}
	nfl.Append(token.NewValue("]", token.NoFoldLiteralEnd))
	return nfl, v[1:], nil
}

// GetMsgID parses "<" id-left "@" id-right ">" with optional CFWS on either
// side. The obsolete forms of id-left and id-right are accepted with
// defects.
func GetMsgID(s string) (*token.List, string, error) {
	mid := token.NewList(token.MsgID)
	v := optionalCFWS(mid, s)
	if v == "" || v[0] != '<' {
		return nil, s, fail("msg-id", "expected msg-id but found %s", show(v))
	}
	mid.Append(token.NewValue("<", token.MsgIDStart))
	v = v[1:]

	left, rest, err := GetDotAtomText(v)
	if err != nil {
		left, rest, err = GetObsLocalPart(v)
		if err != nil {
			return nil, s, fail("msg-id", "expected dot-atom-text or obs-id-left but found %s", show(v))
		}
		mid.AddDefect(defect.Obsoletef("obsolete id-left in msg-id"))
	}
	mid.Append(left)
	v = rest

	if v == "" || v[0] != '@' {
		mid.AddDefect(defect.Invalidf("msg-id with no id-right"))
		if v != "" && v[0] == '>' {
			mid.Append(token.NewValue(">", token.MsgIDEnd))
			v = v[1:]
		}
		return mid, v, nil
	}
	mid.Append(token.NewValue("@", token.AtSymbol))
	v = v[1:]

	right, rest, err := GetDotAtomText(v)
	if err != nil {
		right, rest, err = GetNoFoldLiteral(v)
		if err != nil {
			right, rest, err = GetDomain(v)
			if err != nil {
				return nil, s, fail("msg-id", "expected dot-atom-text, no-fold-literal or obs-id-right but found %s", show(v))
			}
			mid.AddDefect(defect.Obsoletef("obsolete id-right in msg-id"))
		}
	}
	mid.Append(right)
	v = rest

	if v != "" && v[0] == '>' {
		v = v[1:]
	} else {
		mid.AddDefect(defect.Invalidf("missing trailing '>' on msg-id"))
	}
	mid.Append(token.NewValue(">", token.MsgIDEnd))
	v = optionalCFWS(mid, v)
	return mid, v, nil
}

// ParseMessageID parses the value of a Message-ID header. A value that is
// not a msg-id is kept as unstructured text inside an invalid-message-id.
func ParseMessageID(s string) *token.List {
	mid, rest, err := GetMsgID(s)
	if err != nil {
		u := GetUnstructured(s)
		im := token.NewList(token.InvalidMessageID, u.Children()...)
		im.AddDefect(u.Defects()...)
		im.AddDefect(defect.Invalidf("invalid msg-id: %v", err))
		return im
	}

	m := token.NewList(token.MessageID, mid)
	if rest != "" {
		m.AddDefect(defect.Invalidf("unexpected %q after msg-id", rest))
		m.Append(GetUnstructured(rest))
	}
	return m
}

// getInvalidMsgID captures text up to whitespace or the next "<" as an
// invalid-message-id.
func getInvalidMsgID(s string) (*token.List, string) {
	n := 1
	for n < len(s) && s[n] != '<' && !wsp.has(s[n]) && s[n] != ',' {
		n++
	}
	t := token.NewValue(s[:n], token.UText)
	validateXText(t)
	im := token.NewList(token.InvalidMessageID, t)
	im.AddDefect(defect.Invalidf("invalid msg-id %q", s[:n]))
	return im, s[n:]
}

// ParseMessageIDs parses the value of an In-Reply-To or References header,
// a list of msg-ids. Commas between ids are tolerated with a defect and
// text that is not a msg-id is kept as an invalid-message-id.
func ParseMessageIDs(s string) *token.List {
	ids := token.NewList(token.MessageIDList)
	v := s
	for v != "" {
		if v[0] == ',' {
			ids.AddDefect(defect.Invalidf("comma in msg-id list"))
			ids.Append(token.NewSpace(",", token.InvalidMessageID))
			v = v[1:]
			continue
		}

		mid, rest, err := GetMsgID(v)
		if err == nil {
			ids.Append(mid)
			v = rest
			continue
		}

		if isCFWSLeader(v) {
			cfws, rest := GetCFWS(v)
			ids.Append(cfws)
			v = rest
			continue
		}

		im, rest := getInvalidMsgID(v)
		ids.Append(im)
		v = rest
	}
	return ids
}
