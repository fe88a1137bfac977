package parser

import (
	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/token"
)

func hasInvalid(ds []*defect.Defect) bool {
	return defect.Has(ds, defect.Invalid)
}

// GetLocalPart parses the local-part of an addr-spec. A dot-atom or a
// quoted-string is tried first, then the obsolete form.
func GetLocalPart(s string) (*token.List, string, error) {
	lp := token.NewList(token.LocalPart)
	leader, v := leadingCFWS(s)
	if v == "" {
		return nil, s, fail("local-part", "expected local-part but found %s", show(v))
	}

	t, v2, err := GetDotAtom(v)
	if err != nil {
		t, v2, err = GetWord(v)
		if err != nil {
			if v[0] != '\\' && phraseEnds.has(v[0]) {
				return nil, s, err
			}
			t, v2 = token.NewList(token.Generic), v
		}
	}
	v = v2

	if leader != nil {
		t.Prepend(leader)
	}
	lp.Append(t)

	if v != "" && (v[0] == '\\' || !phraseEnds.has(v[0])) {
		olp, rest, err := GetObsLocalPart(lp.String() + v)
		if err != nil {
			return nil, s, err
		}
		if olp.Kind() == token.InvalidObsLocalPart {
			lp.AddDefect(defect.Invalidf("local-part is not dot-atom, quoted-string, or obs-local-part"))
		} else {
			lp.AddDefect(defect.Obsoletef("local-part is not a dot-atom (contains CFWS)"))
		}
		lp.SetAt(0, olp)
		v = rest
	}

	if !isASCII(lp.Value()) {
		lp.AddDefect(defect.New(defect.NonASCIILocalPart, "local-part contains non-ASCII characters"))
	}
	return lp, v, nil
}

// GetObsLocalPart parses the obsolete local-part, words separated by
// periods with CFWS allowed anywhere. It is retagged as an
// invalid-obs-local-part when it holds anything worse than obsolete syntax.
func GetObsLocalPart(s string) (*token.List, string, error) {
	olp := token.NewList(token.ObsLocalPart)
	lastWasDot := false
	v := s
	for v != "" && (v[0] == '\\' || !phraseEnds.has(v[0])) {
		switch v[0] {
		case '.':
			if lastWasDot {
				olp.AddDefect(defect.Invalidf("invalid repeated '.'"))
			}
			olp.Append(token.NewDot())
			lastWasDot = true
			v = v[1:]
			continue
		case '\\':
			olp.Append(token.NewValue(v[:1], token.MisplacedSpecial))
			olp.AddDefect(defect.Invalidf(`'\' character outside of quoted-string/ccontent`))
			lastWasDot = false
			v = v[1:]
			continue
		}

		if olp.Len() > 0 && olp.Last().Kind() != token.Dot {
			olp.AddDefect(defect.Invalidf("missing '.' between words"))
		}

		w, rest, err := GetWord(v)
		if err == nil {
			lastWasDot = false
		} else {
			if !isCFWSLeader(v) {
				return nil, s, err
			}
			w, rest = GetCFWS(v)
		}
		olp.Append(w)
		v = rest
	}

	if olp.Len() == 0 {
		return nil, s, fail("obs-local-part", "expected obs-local-part but found %s", show(s))
	}

	cs := olp.Children()
	if cs[0].Kind() == token.Dot || (cs[0].Kind() == token.CFWS && len(cs) > 1 && cs[1].Kind() == token.Dot) {
		olp.AddDefect(defect.Invalidf("invalid leading '.' in local part"))
	}
	n := len(cs)
	if cs[n-1].Kind() == token.Dot || (cs[n-1].Kind() == token.CFWS && n > 1 && cs[n-2].Kind() == token.Dot) {
		olp.AddDefect(defect.Invalidf("invalid trailing '.' in local part"))
	}
	if len(olp.Defects()) > 0 {
		olp.Retag(token.InvalidObsLocalPart)
	}
	return olp, v, nil
}

// GetDText parses domain-literal text up to a bracket or whitespace.
func GetDText(s string) (*token.Terminal, string) {
	text, rest, hadQP := ptextToEndChars(s, "[]")
	pt := token.NewValue(text, token.PText)
	if hadQP {
		pt.AddDefect(defect.Obsoletef("quoted printable found in domain-literal"))
	}
	validateXText(pt)
	return pt, rest
}

func earlyDomainLiteralEnd(s string, dl *token.List) bool {
	if s != "" {
		return false
	}
	dl.AddDefect(defect.Invalidf("end of input inside domain-literal"))
	dl.Append(token.NewValue("]", token.DomainLiteralEnd))
	return true
}

// GetDomainLiteral parses a bracketed domain literal with optional CFWS on
// either side.
func GetDomainLiteral(s string) (*token.List, string, error) {
	dl := token.NewList(token.DomainLiteral)
	v := optionalCFWS(dl, s)
	if v == "" {
		return nil, s, fail("domain-literal", "expected domain-literal")
	}
	if v[0] != '[' {
		return nil, s, fail("domain-literal", "expected '[' at start of domain-literal but found %s", show(v))
	}
	dl.Append(token.NewValue("[", token.DomainLiteralStart))
	v = v[1:]
	if earlyDomainLiteralEnd(v, dl) {
		return dl, v, nil
	}
	if isWSP(v) {
		var t *token.Terminal
		t, v = GetFWS(v)
		dl.Append(t)
	}
	var dt *token.Terminal
	dt, v = GetDText(v)
	dl.Append(dt)
	if earlyDomainLiteralEnd(v, dl) {
		return dl, v, nil
	}
	if isWSP(v) {
		var t *token.Terminal
		t, v = GetFWS(v)
		dl.Append(t)
	}
	if earlyDomainLiteralEnd(v, dl) {
		return dl, v, nil
	}
	if v[0] != ']' {
		return nil, s, fail("domain-literal", "expected ']' at end of domain-literal but found %s", show(v))
	}
	dl.Append(token.NewValue("]", token.DomainLiteralEnd))
	v = optionalCFWS(dl, v[1:])
	return dl, v, nil
}

// GetDomain parses a domain: a dot-atom, a domain literal, or the obsolete
// form of atoms separated by periods.
func GetDomain(s string) (*token.List, string, error) {
	d := token.NewList(token.Domain)
	leader, v := leadingCFWS(s)
	if v == "" {
		return nil, s, fail("domain", "expected domain but found %s", show(v))
	}

	if v[0] == '[' {
		dl, rest, err := GetDomainLiteral(v)
		if err != nil {
			return nil, s, err
		}
		if leader != nil {
			dl.Prepend(leader)
		}
		d.Append(dl)
		return d, rest, nil
	}

	t, rest, err := GetDotAtom(v)
	if err != nil {
		t, rest, err = GetAtom(v)
		if err != nil {
			return nil, s, err
		}
	}
	v = rest
	if v != "" && v[0] == '@' {
		return nil, s, fail("domain", "invalid domain")
	}
	if leader != nil {
		t.Prepend(leader)
	}
	d.Append(t)

	if v != "" && v[0] == '.' {
		d.AddDefect(defect.Obsoletef("domain is not a dot-atom (contains CFWS)"))
		if t.Kind() == token.DotAtom {
			d.Reset(t.Children()...)
		}
		for v != "" && v[0] == '.' {
			d.Append(token.NewDot())
			a, rest, err := GetAtom(v[1:])
			if err != nil {
				return nil, s, err
			}
			d.Append(a)
			v = rest
		}
	}
	return d, v, nil
}

// GetAddrSpec parses local-part "@" domain. A local-part with no domain is
// accepted with a defect.
func GetAddrSpec(s string) (*token.List, string, error) {
	as := token.NewList(token.AddrSpec)
	lp, v, err := GetLocalPart(s)
	if err != nil {
		return nil, s, err
	}
	as.Append(lp)
	if v == "" || v[0] != '@' {
		as.AddDefect(defect.Invalidf("addr-spec local part with no domain"))
		return as, v, nil
	}
	as.Append(token.NewValue("@", token.AtSymbol))
	d, v, err := GetDomain(v[1:])
	if err != nil {
		return nil, s, err
	}
	as.Append(d)
	return as, v, nil
}

// GetObsRoute parses the obsolete source route of an angle-addr, a list of
// "@" domain entries ending with a colon.
func GetObsRoute(s string) (*token.List, string, error) {
	or := token.NewList(token.ObsRoute)
	v := s
	for v != "" && (v[0] == ',' || isCFWSLeader(v)) {
		if isCFWSLeader(v) {
			v = optionalCFWS(or, v)
		} else {
			or.Append(token.NewListSeparator())
			v = v[1:]
		}
	}
	if v == "" || v[0] != '@' {
		return nil, s, fail("obs-route", "expected obs-route domain but found %s", show(v))
	}
	or.Append(token.NewRouteMarker())
	d, v, err := GetDomain(v[1:])
	if err != nil {
		return nil, s, err
	}
	or.Append(d)

	for v != "" && v[0] == ',' {
		or.Append(token.NewListSeparator())
		v = v[1:]
		if v == "" {
			break
		}
		v = optionalCFWS(or, v)
		if v == "" {
			break
		}
		if v[0] == '@' {
			or.Append(token.NewRouteMarker())
			d, rest, err := GetDomain(v[1:])
			if err != nil {
				return nil, s, err
			}
			or.Append(d)
			v = rest
		}
	}

	if v == "" {
		return nil, s, fail("obs-route", "end of header while parsing obs-route")
	}
	if v[0] != ':' {
		return nil, s, fail("obs-route", "expected ':' marking end of obs-route but found %s", show(v))
	}
	or.Append(token.NewValue(":", token.ObsRouteEnd))
	return or, v[1:], nil
}

// GetAngleAddr parses "<" addr-spec ">" with optional CFWS on either side.
// The SMTP null address "<>" and the obsolete route are accepted with
// defects, as is a missing closing bracket.
func GetAngleAddr(s string) (*token.List, string, error) {
	aa := token.NewList(token.AngleAddr)
	v := optionalCFWS(aa, s)
	if v == "" || v[0] != '<' {
		return nil, s, fail("angle-addr", "expected angle-addr but found %s", show(v))
	}
	aa.Append(token.NewValue("<", token.AngleAddrStart))
	v = v[1:]

	if v != "" && v[0] == '>' {
		aa.Append(token.NewValue(">", token.AngleAddrEnd))
		aa.AddDefect(defect.Invalidf("null addr-spec in angle-addr"))
		return aa, v[1:], nil
	}

	as, rest, err := GetAddrSpec(v)
	if err != nil {
		or, orRest, err := GetObsRoute(v)
		if err != nil {
			return nil, s, fail("angle-addr", "expected addr-spec or obs-route but found %s", show(v))
		}
		aa.AddDefect(defect.Obsoletef("obsolete route specification in angle-addr"))
		aa.Append(or)
		as, rest, err = GetAddrSpec(orRest)
		if err != nil {
			return nil, s, err
		}
	}
	aa.Append(as)
	v = rest

	if v != "" && v[0] == '>' {
		v = v[1:]
	} else {
		aa.AddDefect(defect.Invalidf("missing trailing '>' on angle-addr"))
	}
	aa.Append(token.NewValue(">", token.AngleAddrEnd))
	v = optionalCFWS(aa, v)
	return aa, v, nil
}

// GetDisplayName parses the phrase naming a mailbox or group.
func GetDisplayName(s string) (*token.List, string, error) {
	p, v, err := GetPhrase(s)
	if err != nil {
		return nil, s, err
	}
	dn := token.NewList(token.DisplayName, p.Children()...)
	dn.AddDefect(p.Defects()...)
	return dn, v, nil
}

// GetNameAddr parses an optional display name followed by an angle-addr.
func GetNameAddr(s string) (*token.List, string, error) {
	na := token.NewList(token.NameAddr)
	if s == "" {
		return nil, s, fail("name-addr", "expected name-addr but found %s", show(s))
	}

	leader, v := leadingCFWS(s)
	if leader != nil && v == "" {
		return nil, s, fail("name-addr", "expected name-addr but found %s", show(leader.String()))
	}

	if v[0] != '<' {
		if phraseEnds.has(v[0]) {
			return nil, s, fail("name-addr", "expected name-addr but found %s", show(v))
		}
		dn, rest, err := GetDisplayName(v)
		if err != nil {
			return nil, s, err
		}
		if rest == "" {
			return nil, s, fail("name-addr", "expected name-addr but found %s", show(dn.String()))
		}
		if leader != nil {
			if fl, ok := dn.First().(*token.List); ok {
				fl.Prepend(leader)
			} else {
				dn.Prepend(leader)
			}
			leader = nil
		}
		na.Append(dn)
		v = rest
	}

	aa, v, err := GetAngleAddr(v)
	if err != nil {
		return nil, s, err
	}
	if leader != nil {
		aa.Prepend(leader)
	}
	na.Append(aa)
	return na, v, nil
}

// GetMailbox parses a name-addr or an addr-spec. A mailbox holding invalid
// content is retagged as an invalid-mailbox.
func GetMailbox(s string) (*token.List, string, error) {
	mb := token.NewList(token.Mailbox)
	t, v, err := GetNameAddr(s)
	if err != nil {
		t, v, err = GetAddrSpec(s)
		if err != nil {
			return nil, s, fail("mailbox", "expected mailbox but found %s", show(s))
		}
	}
	if hasInvalid(t.AllDefects()) {
		mb.Retag(token.InvalidMailbox)
	}
	mb.Append(t)
	return mb, v, nil
}

// GetInvalidMailbox captures text up to one of endchars as an
// invalid-mailbox. It always succeeds.
func GetInvalidMailbox(s, endchars string) (*token.List, string) {
	im := token.NewList(token.InvalidMailbox)
	return im, captureInvalid(im, s, endchars)
}

// captureInvalid appends phrases and misplaced specials to l until one of
// endchars is found.
func captureInvalid(l *token.List, s, endchars string) string {
	ends := newSet(endchars)
	for s != "" && !ends.has(s[0]) {
		if phraseEnds.has(s[0]) {
			l.Append(token.NewValue(s[:1], token.MisplacedSpecial))
			s = s[1:]
			continue
		}
		p, rest, err := GetPhrase(s)
		if err != nil || len(rest) == len(s) {
			l.Append(token.NewValue(s[:1], token.MisplacedSpecial))
			s = s[1:]
			continue
		}
		l.Append(p)
		s = rest
	}
	return s
}

// markInvalidTail retags the last item of a list as invalid and moves any
// text up to the next of endchars into it.
func markInvalidTail(item *token.List, s, endchars string) string {
	item.Retag(token.InvalidMailbox)
	im, rest := GetInvalidMailbox(s, endchars)
	item.Extend(im)
	return rest
}

// GetMailboxList parses mailboxes separated by commas, up to a semicolon or
// the end of input. Entries that are not mailboxes are kept as
// invalid-mailbox tokens.
func GetMailboxList(s string) (*token.List, string) {
	ml := token.NewList(token.MailboxList)
	v := s
	for v != "" && v[0] != ';' {
		mb, rest, err := GetMailbox(v)
		if err == nil {
			ml.Append(mb)
			v = rest
		} else {
			leader, rest := leadingCFWS(v)
			v = rest
			switch {
			case leader != nil && (v == "" || v[0] == ',' || v[0] == ';'):
				ml.Append(leader)
				ml.AddDefect(defect.Obsoletef("empty element in mailbox-list"))
			case leader == nil && v[0] == ',':
				ml.AddDefect(defect.Obsoletef("empty element in mailbox-list"))
			default:
				im, rest := GetInvalidMailbox(v, ",;")
				if leader != nil {
					im.Prepend(leader)
				}
				ml.Append(im)
				ml.AddDefect(defect.Invalidf("invalid mailbox in mailbox-list"))
				v = rest
			}
		}

		if v != "" && v[0] != ',' && v[0] != ';' {
			if last, ok := ml.Last().(*token.List); ok {
				v = markInvalidTail(last, v, ",;")
			} else {
				im, rest := GetInvalidMailbox(v, ",;")
				ml.Append(im)
				v = rest
			}
			ml.AddDefect(defect.Invalidf("invalid mailbox in mailbox-list"))
		}
		if v != "" && v[0] == ',' {
			ml.Append(token.NewListSeparator())
			v = v[1:]
		}
	}
	return ml, v
}

// GetGroupList parses the members of a group. It always succeeds.
func GetGroupList(s string) (*token.List, string) {
	gl := token.NewList(token.GroupList)
	if s == "" {
		gl.AddDefect(defect.Invalidf("end of header before group-list"))
		return gl, s
	}

	leader, v := leadingCFWS(s)
	if leader != nil {
		if v == "" {
			gl.AddDefect(defect.Invalidf("end of header in group-list"))
			gl.Append(leader)
			return gl, v
		}
		if v[0] == ';' {
			gl.Append(leader)
			return gl, v
		}
	}

	ml, v := GetMailboxList(v)
	if len(ml.AllMailboxes()) == 0 {
		if leader != nil {
			gl.Append(leader)
		}
		gl.Extend(ml)
		gl.AddDefect(defect.Obsoletef("group-list with empty entries"))
		return gl, v
	}
	if leader != nil {
		ml.Prepend(leader)
	}
	gl.Append(ml)
	return gl, v
}

// GetGroup parses display-name ":" [group-list] ";" [CFWS].
func GetGroup(s string) (*token.List, string, error) {
	g := token.NewList(token.Group)
	dn, v, err := GetDisplayName(s)
	if err != nil {
		return nil, s, err
	}
	if v == "" || v[0] != ':' {
		return nil, s, fail("group", "expected ':' at end of group display name but found %s", show(v))
	}
	g.Append(dn)
	g.Append(token.NewValue(":", token.GroupNameTerminator))
	v = v[1:]
	if v != "" && v[0] == ';' {
		g.Append(token.NewValue(";", token.GroupTerminator))
		return g, v[1:], nil
	}

	gl, v := GetGroupList(v)
	g.Append(gl)
	switch {
	case v == "":
		g.AddDefect(defect.Invalidf("end of header in group"))
	case v[0] != ';':
		return nil, s, fail("group", "expected ';' at end of group but found %s", show(v))
	default:
		g.Append(token.NewValue(";", token.GroupTerminator))
		v = optionalCFWS(g, v[1:])
	}
	return g, v, nil
}

// GetAddress parses a group or a mailbox.
func GetAddress(s string) (*token.List, string, error) {
	a := token.NewList(token.Address)
	t, v, err := GetGroup(s)
	if err != nil {
		t, v, err = GetMailbox(s)
		if err != nil {
			return nil, s, fail("address", "expected address but found %s", show(s))
		}
	}
	a.Append(t)
	return a, v, nil
}

// GetAddressList parses addresses separated by commas. It always succeeds
// and consumes all of its input. Each comma separated entry that is not an
// address is kept as an address holding an invalid-mailbox.
func GetAddressList(s string) *token.List {
	al := token.NewList(token.AddressList)
	v := s
	for v != "" {
		a, rest, err := GetAddress(v)
		if err == nil {
			al.Append(a)
			v = rest
		} else {
			leader, rest := leadingCFWS(v)
			v = rest
			switch {
			case leader != nil && (v == "" || v[0] == ','):
				al.Append(leader)
				al.AddDefect(defect.Obsoletef("address-list entry with no content"))
			case leader == nil && v[0] == ',':
				al.AddDefect(defect.Obsoletef("empty element in address-list"))
			default:
				im, rest := GetInvalidMailbox(v, ",")
				if leader != nil {
					im.Prepend(leader)
				}
				al.Append(token.NewList(token.Address, im))
				al.AddDefect(defect.Invalidf("invalid address in address-list"))
				v = rest
			}
		}

		if v != "" && v[0] != ',' {
			if last, ok := al.Last().(*token.List); ok && last.Kind() == token.Address && last.Len() > 0 {
				if item, ok := last.First().(*token.List); ok {
					v = markInvalidTail(item, v, ",")
				}
			}
			if v != "" && v[0] != ',' {
				im, rest := GetInvalidMailbox(v, ",")
				al.Append(token.NewList(token.Address, im))
				v = rest
			}
			al.AddDefect(defect.Invalidf("invalid address in address-list"))
		}
		if v != "" {
			al.Append(token.NewListSeparator())
			v = v[1:]
		}
	}
	return al
}
