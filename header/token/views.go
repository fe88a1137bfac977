package token

import (
	"strings"
)

const dotAtomEnds = "()<>@,:;\\\"[] \t"

func trimSpace(s string) string {
	return strings.Trim(s, " \t\r\n\v\f")
}

// sublist returns a new list with the given children and no defects. It is
// used to compute values of a slice of a list.
func sublist(ts []Token) *List {
	return &List{children: ts}
}

// QuotedValue returns the value of a quoted-string with the quotes in
// place. Surrounding CFWS collapses to a single space.
func (l *List) QuotedValue() string {
	var sb strings.Builder
	for _, c := range l.children {
		if c.Kind() == CFWS {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// Content returns the text between the quotes of a quoted-string, or the
// literal string form for other kinds.
func (l *List) Content() string {
	for _, c := range l.children {
		if c.Kind() == BareQuotedString {
			return c.Value()
		}
	}
	return ""
}

// StrippedValue returns the value with surrounding CFWS and quotes removed
// for quoted-string, attribute, and value lists. Other kinds return Value.
func (l *List) StrippedValue() string {
	switch l.kind {
	case QuotedString:
		return l.Content()
	case Attribute:
		for _, c := range l.children {
			if k := c.Kind(); k == AttrText || k == ExtendedAttrText {
				return c.Value()
			}
		}
		return ""
	case Value:
		if len(l.children) == 0 {
			return ""
		}
		t := l.children[0]
		if t.Kind() == CFWS && len(l.children) > 1 {
			t = l.children[1]
		}
		if tl, ok := t.(*List); ok {
			switch tl.kind {
			case QuotedString, BareQuotedString, Attribute:
				return tl.StrippedValue()
			}
		}
	}
	return l.Value()
}

func (l *List) displayNameValue() string {
	if len(l.children) == 0 {
		return l.joinValues()
	}

	quote := len(l.defects) > 0
	if !quote {
		for _, c := range l.children {
			if c.Kind() == QuotedString {
				quote = true
				break
			}
		}
	}
	if !quote {
		return l.joinValues()
	}

	var pre, post string
	edgeCFWS := func(t Token, first bool) bool {
		if t.Kind() == CFWS {
			return true
		}
		tl, ok := t.(*List)
		if !ok || len(tl.children) == 0 {
			return false
		}
		if first {
			return tl.FirstKind(CFWS)
		}
		return tl.LastKind(CFWS)
	}
	if edgeCFWS(l.children[0], true) {
		pre = " "
	}
	if edgeCFWS(l.children[len(l.children)-1], false) {
		post = " "
	}
	return pre + QuoteString(l.DisplayName()) + post
}

func (l *List) addrSpecValue() string {
	if len(l.children) < 3 {
		if len(l.children) == 0 {
			return ""
		}
		return l.children[0].Value()
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(l.children[0].Value(), " \t\r\n\v\f"))
	sb.WriteString("@")
	sb.WriteString(strings.TrimLeft(l.children[2].Value(), " \t\r\n\v\f"))
	for _, c := range l.children[3:] {
		sb.WriteString(c.Value())
	}
	return sb.String()
}

func (l *List) child(k Kind) *List {
	for _, c := range l.children {
		if cl, ok := c.(*List); ok && cl.kind == k {
			return cl
		}
	}
	return nil
}

// DisplayName returns the display name of a display-name, name-addr,
// mailbox, group, or address. It returns an empty string when there is
// none.
func (l *List) DisplayName() string {
	switch l.kind {
	case DisplayName:
		res := append([]Token(nil), l.children...)
		if len(res) == 0 {
			return ""
		}
		if res[0].Kind() == CFWS {
			res = res[1:]
		} else if fl, ok := res[0].(*List); ok && fl.FirstKind(CFWS) {
			res[0] = sublist(fl.children[1:])
		}
		if len(res) == 0 {
			return ""
		}
		if res[len(res)-1].Kind() == CFWS {
			res = res[:len(res)-1]
		} else if ll, ok := res[len(res)-1].(*List); ok && ll.LastKind(CFWS) {
			res[len(res)-1] = sublist(ll.children[:len(ll.children)-1])
		}
		return sublist(res).Value()
	case NameAddr:
		if len(l.children) == 1 {
			return ""
		}
		if dn, ok := l.children[0].(*List); ok && dn.kind == DisplayName {
			return dn.DisplayName()
		}
	case Mailbox, InvalidMailbox:
		if na, ok := l.First().(*List); ok && na.kind == NameAddr {
			return na.DisplayName()
		}
	case Group:
		if dn, ok := l.First().(*List); ok && dn.kind == DisplayName {
			return dn.DisplayName()
		}
	case Address:
		if g, ok := l.First().(*List); ok {
			return g.DisplayName()
		}
	}
	return ""
}

// addrSpecHolder finds the addr-spec or angle-addr beneath a mailbox-ish
// list.
func (l *List) addrSpecHolder() *List {
	switch l.kind {
	case AddrSpec, AngleAddr:
		return l
	case Mailbox, InvalidMailbox, NameAddr:
		if c, ok := l.First().(*List); ok {
			if c.kind == NameAddr {
				return c.addrSpecHolder()
			}
			if c.kind == AddrSpec || c.kind == AngleAddr {
				return c
			}
		}
		if l.kind == NameAddr {
			if c := l.child(AngleAddr); c != nil {
				return c
			}
		}
	}
	return nil
}

// LocalPart returns the local-part of an addr-spec, angle-addr, name-addr,
// or mailbox with the CFWS around dots removed.
func (l *List) LocalPart() string {
	if l.kind != LocalPart {
		h := l.addrSpecHolder()
		if h == nil {
			return ""
		}
		if h.kind == AngleAddr {
			if as := h.child(AddrSpec); as != nil {
				return as.LocalPart()
			}
			return ""
		}
		if lp, ok := h.First().(*List); ok && lp.kind == LocalPart {
			return lp.LocalPart()
		}
		return ""
	}

	inner, ok := l.First().(*List)
	if !ok {
		if l.First() == nil {
			return ""
		}
		return l.First().Value()
	}

	dot := NewDot()
	toks := append(append([]Token(nil), inner.children...), NewDot())
	res := []Token{dot}
	var last Token = dot
	lastIsList := false
	for _, tok := range toks {
		if tok.Kind() == CFWS {
			continue
		}
		if lastIsList && tok.Kind() == Dot {
			if ll, ok := last.(*List); ok && ll.LastKind(CFWS) {
				res[len(res)-1] = sublist(ll.children[:len(ll.children)-1])
			}
		}
		tl, isList := tok.(*List)
		if isList && last.Kind() == Dot && tl.FirstKind(CFWS) {
			res = append(res, sublist(tl.children[1:]))
		} else {
			res = append(res, tok)
		}
		last = res[len(res)-1]
		lastIsList = isList
	}
	return sublist(res[1 : len(res)-1]).Value()
}

// Domain returns the domain of a domain, addr-spec, angle-addr, name-addr,
// or mailbox with all whitespace removed.
func (l *List) Domain() string {
	switch l.kind {
	case Domain:
		return strings.Join(strings.Fields(l.joinValues()), "")
	case AddrSpec:
		if len(l.children) < 3 {
			return ""
		}
		if d, ok := l.children[len(l.children)-1].(*List); ok {
			return d.Domain()
		}
		return ""
	}
	h := l.addrSpecHolder()
	if h == nil {
		return ""
	}
	if h.kind == AngleAddr {
		if as := h.child(AddrSpec); as != nil {
			return as.Domain()
		}
		return ""
	}
	return h.Domain()
}

// Route returns the obsolete source route domains of an angle-addr,
// name-addr, or mailbox.
func (l *List) Route() []string {
	switch l.kind {
	case ObsRoute:
		var ds []string
		for _, c := range l.children {
			if d, ok := c.(*List); ok && d.kind == Domain {
				ds = append(ds, d.Domain())
			}
		}
		return ds
	case AngleAddr:
		if r := l.child(ObsRoute); r != nil {
			return r.Route()
		}
		return nil
	}
	h := l.addrSpecHolder()
	if h == nil || h.kind != AngleAddr {
		return nil
	}
	return h.Route()
}

// AddrSpec returns the canonical addr-spec of an addr-spec, angle-addr,
// name-addr, or mailbox. The local-part is quoted when it needs to be. An
// angle-addr without an addr-spec returns "<>".
func (l *List) AddrSpec() string {
	switch l.kind {
	case AddrSpec:
		lp := l.LocalPart()
		if strings.ContainsAny(lp, dotAtomEnds) {
			lp = QuoteString(lp)
		}
		if len(l.children) >= 3 {
			return lp + "@" + l.Domain()
		}
		return lp
	case AngleAddr:
		as := l.child(AddrSpec)
		if as == nil {
			return "<>"
		}
		if as.LocalPart() != "" {
			return as.AddrSpec()
		}
		return QuoteString(as.LocalPart()) + as.AddrSpec()
	}
	h := l.addrSpecHolder()
	if h == nil {
		return ""
	}
	return h.AddrSpec()
}

// Addresses returns the address children of an address-list.
func (l *List) Addresses() []*List {
	var as []*List
	for _, c := range l.children {
		if cl, ok := c.(*List); ok && cl.kind == Address {
			as = append(as, cl)
		}
	}
	return as
}

// Mailboxes returns the valid mailboxes beneath an address-list, address,
// mailbox-list, group-list, or group.
func (l *List) Mailboxes() []*List {
	return l.mailboxes(false)
}

// AllMailboxes returns the mailboxes beneath an address-list, address,
// mailbox-list, group-list, or group including those that are invalid.
func (l *List) AllMailboxes() []*List {
	return l.mailboxes(true)
}

func (l *List) mailboxes(all bool) []*List {
	var ms []*List
	switch l.kind {
	case AddressList:
		for _, a := range l.Addresses() {
			ms = append(ms, a.mailboxes(all)...)
		}
	case Address:
		switch f := l.First().(type) {
		case *List:
			switch f.kind {
			case Mailbox:
				ms = append(ms, f)
			case InvalidMailbox:
				if all {
					ms = append(ms, f)
				}
			case Group:
				ms = append(ms, f.mailboxes(all)...)
			}
		}
	case MailboxList:
		for _, c := range l.children {
			if cl, ok := c.(*List); ok {
				if cl.kind == Mailbox || (all && cl.kind == InvalidMailbox) {
					ms = append(ms, cl)
				}
			}
		}
	case GroupList, Group:
		if l.kind == Group {
			if len(l.children) < 3 {
				return nil
			}
			if gl, ok := l.children[2].(*List); ok && gl.kind == GroupList {
				return gl.mailboxes(all)
			}
			return nil
		}
		if ml, ok := l.First().(*List); ok && ml.kind == MailboxList {
			return ml.mailboxes(all)
		}
	}
	return ms
}

// SectionNumber returns the RFC 2231 section number of a parameter. It
// is zero for parameters that are not sectioned.
func (l *List) SectionNumber() int {
	if !l.Sectioned || len(l.children) < 2 {
		return 0
	}
	if s, ok := l.children[1].(*List); ok && s.kind == Section {
		return s.Number
	}
	return 0
}

// ParamValue returns the raw value of a parameter with any quotes removed.
// For extended parameters the value is still percent-encoded.
func (l *List) ParamValue() string {
	for _, c := range l.children {
		cl, ok := c.(*List)
		if !ok {
			continue
		}
		if cl.kind == Value {
			return cl.StrippedValue()
		}
		if cl.kind == QuotedString {
			for _, qc := range cl.children {
				bq, ok := qc.(*List)
				if !ok || bq.kind != BareQuotedString {
					continue
				}
				for _, bc := range bq.children {
					if v, ok := bc.(*List); ok && v.kind == Value {
						return v.StrippedValue()
					}
				}
			}
		}
	}
	return ""
}

// AttributeName returns the stripped parameter name of a parameter, or an
// empty string when the parameter has no attribute.
func (l *List) AttributeName() string {
	if a, ok := l.First().(*List); ok && a.kind == Attribute {
		return trimSpace(a.Value())
	}
	return ""
}
