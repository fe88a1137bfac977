// Package token defines the lossless tree produced by the header value
// parser. Every node is either a Terminal, which owns a slice of the source
// text, or a List, which owns an ordered sequence of child nodes. The
// children of a List, concatenated, cover exactly the input consumed by the
// production that built it, so String reproduces the source.
package token

import (
	"strings"
	"time"

	"github.com/zostay/go-headervalue/header/defect"
)

// Token is a node of the parse tree.
type Token interface {
	// Kind returns the grammar production that created the token.
	Kind() Kind

	// Value returns the semantic value of the token. Whitespace and
	// comments collapse to a single space and encoded words are decoded.
	Value() string

	// String returns the source text of the token.
	String() string

	// Rendered returns the source text with encoded words replaced by the
	// text they decode to. This is the text the folder lays out.
	Rendered() string

	// Defects returns the diagnostics recorded on this token only.
	Defects() []*defect.Defect

	// AllDefects returns the diagnostics of this token followed by those of
	// every descendant.
	AllDefects() []*defect.Defect

	// AddDefect records additional diagnostics on the token.
	AddDefect(ds ...*defect.Defect)

	// EWAllowed reports whether the token may be wrapped as an RFC 2047
	// encoded word when folding.
	EWAllowed() bool

	// EWCombineAllowed reports whether an encoded word produced from this
	// token may be merged with a preceding encoded word.
	EWCombineAllowed() bool

	// SyntacticBreak reports whether a fold may be placed before this token.
	SyntacticBreak() bool

	// StartsWithFWS reports whether the first terminal of the token is
	// folding whitespace.
	StartsWithFWS() bool

	// Comments returns the content of every comment found in the token.
	Comments() []string
}

type termClass int

const (
	valueClass termClass = iota
	spaceClass
	ewSpaceClass
)

// Terminal is a leaf of the parse tree.
type Terminal struct {
	text    string
	kind    Kind
	class   termClass
	noEW    bool
	noBreak bool
	defects []*defect.Defect
}

// NewValue returns a terminal whose value is its text.
func NewValue(text string, k Kind) *Terminal {
	return &Terminal{text: text, kind: k}
}

// NewSpace returns a whitespace terminal. Its value is a single space no
// matter what whitespace it holds.
func NewSpace(text string, k Kind) *Terminal {
	return &Terminal{text: text, kind: k, class: spaceClass}
}

// NewEWSpace returns the whitespace found between two adjacent encoded
// words. RFC 2047 says that whitespace is not part of the text, so its value
// and rendering are empty, though String still returns the whitespace.
func NewEWSpace(text string, k Kind) *Terminal {
	return &Terminal{text: text, kind: k, class: ewSpaceClass}
}

// NewListSeparator returns the comma terminal that separates list items.
func NewListSeparator() *Terminal {
	return &Terminal{text: ",", kind: ListSeparator, noEW: true, noBreak: true}
}

// NewDot returns the period terminal used in dot-atoms and local-parts.
func NewDot() *Terminal {
	return &Terminal{text: ".", kind: Dot, noEW: true}
}

// NewRouteMarker returns the "@" terminal starting an obs-route domain.
func NewRouteMarker() *Terminal {
	return &Terminal{text: "@", kind: RouteMarker, noEW: true}
}

// NewBlocked returns a value terminal that may not be wrapped as an encoded
// word. The folder uses these for text that must be emitted literally.
func NewBlocked(text string, k Kind) *Terminal {
	return &Terminal{text: text, kind: k, noEW: true}
}

// Text returns the source text held by the terminal.
func (t *Terminal) Text() string { return t.text }

// IsSpace reports whether the terminal is whitespace.
func (t *Terminal) IsSpace() bool { return t.class != valueClass }

func (t *Terminal) Kind() Kind { return t.kind }

func (t *Terminal) Value() string {
	switch t.class {
	case spaceClass:
		return " "
	case ewSpaceClass:
		return ""
	}
	return t.text
}

func (t *Terminal) String() string { return t.text }

func (t *Terminal) Rendered() string {
	if t.class == ewSpaceClass {
		return ""
	}
	return t.text
}

func (t *Terminal) Defects() []*defect.Defect { return t.defects }

func (t *Terminal) AllDefects() []*defect.Defect { return t.defects }

func (t *Terminal) AddDefect(ds ...*defect.Defect) {
	t.defects = append(t.defects, ds...)
}

func (t *Terminal) EWAllowed() bool        { return !t.noEW }
func (t *Terminal) EWCombineAllowed() bool { return true }
func (t *Terminal) SyntacticBreak() bool   { return !t.noBreak }
func (t *Terminal) StartsWithFWS() bool    { return t.class != valueClass }
func (t *Terminal) Comments() []string     { return nil }

// List is an interior node of the parse tree. Besides its children, a List
// holds a few cached fields for the kinds that need them. Those caches are
// filled by the parser and always agree with the children.
type List struct {
	kind     Kind
	children []Token
	defects  []*defect.Defect
	params   []Param
	hasParam bool

	// CTE is the raw source of an encoded word, or the mechanism of a
	// Content-Transfer-Encoding value.
	CTE string

	// Charset and Lang are set on encoded words and extended parameters.
	Charset string
	Lang    string

	// Number is the section number of a section, and Sectioned and
	// Extended describe the RFC 2231 markers of a parameter.
	Number    int
	Sectioned bool
	Extended  bool

	// Maintype and Subtype are the lower-cased media type of a
	// content-type.
	Maintype string
	Subtype  string

	// ContentDisposition is the lower-cased disposition type.
	ContentDisposition string

	// Major and Minor are the MIME-Version numbers. HasMajor and HasMinor are
	// false when the number was missing.
	Major, Minor       int
	HasMajor, HasMinor bool

	// Time is the parsed Date value, or the zero time.
	Time time.Time
}

// NewList returns a list of the given kind holding the given children.
func NewList(k Kind, children ...Token) *List {
	l := &List{kind: k, children: children}
	switch k {
	case ContentType:
		l.Maintype, l.Subtype = "text", "plain"
	case ContentTransferEncoding:
		l.CTE = "7bit"
	case Parameter:
		l.Charset = "us-ascii"
	}
	return l
}

func (l *List) Kind() Kind { return l.kind }

// Retag changes the kind of the list. Only the reclassification of a
// provisionally valid production as its invalid counterpart is allowed.
// It reports whether the kind was changed.
func (l *List) Retag(k Kind) bool {
	if retags[l.kind] != k {
		return false
	}
	l.kind = k
	return true
}

// Children returns the child tokens. The slice must not be modified.
func (l *List) Children() []Token { return l.children }

// Len returns the number of children.
func (l *List) Len() int { return len(l.children) }

// At returns the ith child.
func (l *List) At(i int) Token { return l.children[i] }

// First returns the first child or nil when the list is empty.
func (l *List) First() Token {
	if len(l.children) == 0 {
		return nil
	}
	return l.children[0]
}

// Last returns the last child or nil when the list is empty.
func (l *List) Last() Token {
	if len(l.children) == 0 {
		return nil
	}
	return l.children[len(l.children)-1]
}

// Append adds children to the end of the list.
func (l *List) Append(ts ...Token) {
	l.children = append(l.children, ts...)
}

// Extend adds the children of o to the end of the list.
func (l *List) Extend(o *List) {
	l.children = append(l.children, o.children...)
}

// Prepend adds a child to the front of the list.
func (l *List) Prepend(t Token) {
	l.children = append([]Token{t}, l.children...)
}

// SetAt replaces the ith child.
func (l *List) SetAt(i int, t Token) {
	l.children[i] = t
}

// Reset replaces all children of the list.
func (l *List) Reset(ts ...Token) {
	l.children = ts
}

// Pop removes and returns the last child.
func (l *List) Pop() Token {
	t := l.children[len(l.children)-1]
	l.children = l.children[:len(l.children)-1]
	return t
}

// FirstKind reports whether the list has a first child of kind k.
func (l *List) FirstKind(k Kind) bool {
	return len(l.children) > 0 && l.children[0].Kind() == k
}

// LastKind reports whether the list has a last child of kind k.
func (l *List) LastKind(k Kind) bool {
	return len(l.children) > 0 && l.children[len(l.children)-1].Kind() == k
}

func (l *List) Value() string {
	switch l.kind {
	case CFWS, Comment:
		return " "
	case BareQuotedString:
		return l.joinRendered()
	case DisplayName:
		return l.displayNameValue()
	case AddrSpec:
		return l.addrSpecValue()
	case LocalPart:
		if q, ok := l.First().(*List); ok && q.kind == QuotedString {
			return q.QuotedValue()
		}
	}
	return l.joinValues()
}

func (l *List) joinValues() string {
	var sb strings.Builder
	for _, c := range l.children {
		sb.WriteString(c.Value())
	}
	return sb.String()
}

func (l *List) joinRendered() string {
	var sb strings.Builder
	for _, c := range l.children {
		sb.WriteString(c.Rendered())
	}
	return sb.String()
}

func (l *List) String() string {
	switch l.kind {
	case BareQuotedString:
		var sb strings.Builder
		for _, c := range l.children {
			sb.WriteString(c.String())
		}
		return QuoteString(sb.String())
	case Comment:
		return l.commentString(Token.String)
	case EncodedWord:
		if l.CTE != "" {
			return l.CTE
		}
	}
	var sb strings.Builder
	for _, c := range l.children {
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (l *List) Rendered() string {
	switch l.kind {
	case BareQuotedString:
		return QuoteString(l.joinRendered())
	case Comment:
		return l.commentString(Token.Rendered)
	}
	return l.joinRendered()
}

func (l *List) commentString(render func(Token) string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, c := range l.children {
		if c.Kind() == Comment {
			sb.WriteString(render(c))
		} else {
			sb.WriteString(MakeQuotedPairs(render(c), `\()`))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func (l *List) Defects() []*defect.Defect { return l.defects }

func (l *List) AllDefects() []*defect.Defect {
	ds := append([]*defect.Defect(nil), l.defects...)
	for _, c := range l.children {
		ds = append(ds, c.AllDefects()...)
	}
	return ds
}

func (l *List) AddDefect(ds ...*defect.Defect) {
	l.defects = append(l.defects, ds...)
}

func (l *List) EWAllowed() bool {
	if noEW[l.kind] {
		return false
	}
	if l.kind == DotAtomText {
		return true
	}
	for _, c := range l.children {
		if !c.EWAllowed() {
			return false
		}
	}
	return true
}

func (l *List) EWCombineAllowed() bool { return l.kind != DisplayName }

func (l *List) SyntacticBreak() bool { return !noBreak[l.kind] }

func (l *List) StartsWithFWS() bool {
	if len(l.children) == 0 {
		return false
	}
	return l.children[0].StartsWithFWS()
}

func (l *List) Comments() []string {
	if l.kind == Comment {
		var sb strings.Builder
		for _, c := range l.children {
			sb.WriteString(c.String())
		}
		return []string{sb.String()}
	}
	var cs []string
	for _, c := range l.children {
		cs = append(cs, c.Comments()...)
	}
	return cs
}

// QuoteString returns s wrapped in double quotes with backslash and double
// quote characters escaped as quoted-pairs.
func QuoteString(s string) string {
	return `"` + MakeQuotedPairs(s, `\"`) + `"`
}

// MakeQuotedPairs escapes every character of s found in specials with a
// backslash.
func MakeQuotedPairs(s, specials string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(specials, s[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
