package token

import (
	"sort"
	"strings"

	"github.com/zostay/go-headervalue/header/charset"
	"github.com/zostay/go-headervalue/header/defect"
)

// Param is a single decoded MIME parameter. Sectioned RFC 2231 parameters
// are reassembled into one Param.
type Param struct {
	Name  string
	Value string
}

// Params returns the decoded parameters of a mime-parameters list, or of
// the last mime-parameters child of a content-type or content-disposition.
// Names are returned as they appear and in the order they first appear.
func (l *List) Params() []Param {
	if l.kind != MIMEParameters {
		for i := len(l.children) - 1; i >= 0; i-- {
			if mp, ok := l.children[i].(*List); ok && mp.kind == MIMEParameters {
				return mp.Params()
			}
		}
		return nil
	}
	if !l.hasParam {
		l.params = assembleParams(l)
		l.hasParam = true
	}
	return l.params
}

// Param returns the value of the first parameter whose name matches name
// without regard to case.
func (l *List) Param(name string) (string, bool) {
	for _, p := range l.Params() {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

type paramPart struct {
	section int
	param   *List
}

// assembleParams groups parameter parts by name, orders the RFC 2231
// sections, and decodes them. Recovery follows the parser: duplicate
// parameters are ignored, duplicate sections are used in order of
// appearance, and gaps are ignored. Each problem is recorded as a defect on
// the offending parameter.
func assembleParams(mp *List) []Param {
	var names []string
	groups := map[string][]paramPart{}
	for _, c := range mp.children {
		p, ok := c.(*List)
		if !ok || !p.kind.IsParameter() {
			continue
		}
		if !p.FirstKind(Attribute) {
			continue
		}
		name := p.AttributeName()
		if _, seen := groups[name]; !seen {
			names = append(names, name)
		}
		groups[name] = append(groups[name], paramPart{p.SectionNumber(), p})
	}

	ps := make([]Param, 0, len(names))
	for _, name := range names {
		parts := groups[name]
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].section < parts[j].section
		})

		first := parts[0].param
		cs := first.Charset
		if !first.Extended && len(parts) > 1 && parts[1].section == 0 {
			parts[1].param.AddDefect(defect.Invalidf("duplicate parameter name; duplicate(s) ignored"))
			parts = parts[:1]
		}

		var sb strings.Builder
		i := 0
		for _, part := range parts {
			if part.section != i {
				if !part.param.Extended {
					part.param.AddDefect(defect.Invalidf("duplicate parameter name; duplicate ignored"))
					continue
				}
				part.param.AddDefect(defect.Invalidf("inconsistent RFC2231 parameter numbering"))
			}
			i++

			v := part.param.ParamValue()
			if part.param.Extended {
				raw := PercentDecode(v)
				s, undecodable, err := charset.Decode(cs, raw)
				if err != nil {
					part.param.AddDefect(defect.New(defect.Charset, "unknown charset "+cs+"; decoded as us-ascii"))
				}
				if undecodable {
					part.param.AddDefect(defect.New(defect.UndecodableBytes, ""))
				}
				v = s
			}
			sb.WriteString(v)
		}
		ps = append(ps, Param{Name: name, Value: sb.String()})
	}
	return ps
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// PercentDecode decodes %XX escapes of s. A percent sign not followed by
// two hex digits is kept literally.
func PercentDecode(s string) []byte {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b = append(b, hi<<4|lo)
				i += 2
				continue
			}
		}
		b = append(b, s[i])
	}
	return b
}

// attrSafe are the bytes PercentEncode leaves as-is.
const attrSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_.-~"

// PercentEncode escapes every byte of s other than letters, digits and
// "_.-~" as %XX, for use in an RFC 2231 extended value.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(attrSafe, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}
