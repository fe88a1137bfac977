package param

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/fold"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-Type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-Type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in
	// the Content-Disposition header.
	Filename = "filename"
)

// ErrInvalidValue is returned by Parse when the primary value of the header
// is missing or malformed.
var ErrInvalidValue = errors.New("invalid parameterized header value")

// tspecials are the characters that force a parameter value to be quoted.
const tspecials = `()<>@,;:\"/[]?= ` + "\t"

// Value represents a parsed parameterized header field, such as is used in the
// Content-Type and Content-Disposition headers. A Value object is immutable:
// You cannot change it in place. However, a Modify() function is provided to
// perform transformation of a Value into a new Value.
type Value struct {
	v       string
	ps      map[string]string
	defects []*defect.Defect
}

// Parse takes a header field body, parses it as a Value and returns it. A
// body whose primary value contains a slash is parsed as a Content-Type,
// anything else as a Content-Disposition. Problems with the parameters are
// recorded as defects, but a missing or malformed primary value is returned
// as an error wrapping ErrInvalidValue.
func Parse(v string) (*Value, error) {
	primary := v
	if ix := strings.IndexByte(v, ';'); ix >= 0 {
		primary = v[:ix]
	}

	var tree *token.List
	if strings.ContainsRune(primary, '/') {
		tree = parser.ParseContentType(v)
	} else {
		tree = parser.ParseContentDisposition(v)
	}

	for _, d := range tree.Defects() {
		if d.Kind == defect.Invalid || d.Kind == defect.MissingRequiredValue {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValue, d.Message)
		}
	}

	return FromTree(tree), nil
}

// FromTree builds a Value from a content-type, content-disposition, or
// mime-parameters tree returned by the parser. Defects found anywhere in the
// tree are kept with the Value.
func FromTree(tree *token.List) *Value {
	pv := &Value{
		ps:      make(map[string]string),
		defects: tree.AllDefects(),
	}

	switch tree.Kind() {
	case token.ContentType:
		pv.v = tree.Maintype + "/" + tree.Subtype
	case token.ContentDisposition:
		pv.v = tree.ContentDisposition
	}

	for _, p := range tree.Params() {
		pv.ps[strings.ToLower(p.Name)] = p.Value
	}

	return pv
}

// New creates a new parameterized header field with the given parameters, if
// any.
func New(v string, ps ...map[string]string) *Value {
	pv := &Value{v: v, ps: make(map[string]string)}
	for _, m := range ps {
		for k, val := range m {
			pv.ps[k] = val
		}
	}
	return pv
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.ps[strings.ToLower(name)] = value
	}
}

// Delete is a Modifier that removes the parameter with the given name from the
// Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		delete(pv.ps, strings.ToLower(name))
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123; charset=latin1")
//	nv := param.Modify(v, Change("multipart/alternate"), Set("charset", "utf-8"))
//
// The defects of the original are not carried over.
func Modify(pv *Value, changes ...Modifier) *Value {
	copy := pv.Clone()
	copy.defects = nil
	for _, change := range changes {
		change(copy)
	}
	return copy
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-Disposition,
// usually either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-Type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-Type header. It searches the
// MediaType() for a slash. If found, it will return the string before that
// slash. If no slash is found, it returns an empty string.
//
// For example, if MediaType() returns "image/jpeg", this method will return
// "image".
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-Type header. It searches
// the MediaType() for a slash. If found, it will return the string after that
// slash. If no slash is found, it returns an empty string.
//
// For example, if MediaType() returns "text/html", this method will return
// "html".
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters encoded on this Value as a map. Do not
// modify this map. The behavior if you do is not defined and may change in the
// future. If you need to modify it, make a copy first.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the value of the parameter with the given name. Names
// are matched without regard to case.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-Disposition header.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Charset returns the value of the "charset" parameter. It is intended for use
// with the Content-Type header.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the value of the "boundary" parameter. It is intended for
// use with the Content-Type header.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Defects returns the problems found when the Value was parsed.
func (pv *Value) Defects() []*defect.Defect {
	return pv.defects
}

// String returns the serialized value of the Value including the primary value
// and all parameters, sorted by name. Parameter values are quoted only when
// they must be, and values that are not ASCII use the RFC 2231 extended form.
func (pv *Value) String() string {
	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	parts := make([]string, len(pv.ps)+1)
	parts[0] = pv.v

	for n, k := range pks {
		parts[n+1] = formatParam(k, pv.ps[k])
	}

	return strings.Join(parts, "; ")
}

func formatParam(k, v string) string {
	switch {
	case !isASCII(v):
		cs := "utf-8"
		if !utf8.ValidString(v) {
			cs = "unknown-8bit"
		}
		return k + "*=" + cs + "''" + token.PercentEncode(v)
	case v == "" || strings.ContainsAny(v, tspecials) || !isPrintable(v):
		return k + "=" + token.QuoteString(v)
	}
	return k + "=" + v
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// Bytes returns the serialized value of the Value including the primary value
// and all parameters.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}

// Tree parses the serialized Value back into a token tree.
func (pv *Value) Tree() *token.List {
	if strings.ContainsRune(pv.v, '/') {
		return parser.ParseContentType(pv.String())
	}
	return parser.ParseContentDisposition(pv.String())
}

// Fold renders the Value as a complete header field with the given name,
// folded according to p.
func (pv *Value) Fold(name string, p *fold.Policy) (string, error) {
	return fold.FoldField(name, pv.Tree(), p)
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	var copy Value
	copy.v = pv.v
	copy.ps = make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		copy.ps[k] = v
	}
	copy.defects = append([]*defect.Defect(nil), pv.defects...)
	return &copy
}
