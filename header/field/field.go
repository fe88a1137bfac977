package field

import (
	"strings"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/fold"
	"github.com/zostay/go-headervalue/header/token"
)

// Field is a single header field. It holds the field name, the token tree
// produced by the parser registered for that name, and, when the field was
// read from input, the Raw bytes it came from.
//
// The String() and Bytes() methods will always work on the Raw field if
// present, but fall back to folding the tree if not.
type Field struct {
	name string
	tree *token.List
	*Raw
}

// New constructs a new field with no original value. The body is parsed with
// the parser registered for the name.
func New(name, body string) *Field {
	return &Field{name: name, tree: ParserFor(name)(body)}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// Body returns the semantic value of the field body: encoded words are
// decoded, and comments and runs of whitespace collapse to a single space.
func (f *Field) Body() string {
	return strings.TrimSpace(f.tree.Value())
}

// Tree returns the parsed field body.
func (f *Field) Tree() *token.List {
	return f.tree
}

// Defects returns every problem the parser found in the field body.
func (f *Field) Defects() []*defect.Defect {
	return f.tree.AllDefects()
}

// Fold renders the complete field, folded according to p. When p is nil,
// fold.DefaultPolicy is used.
func (f *Field) Fold(p *fold.Policy) (string, error) {
	return fold.FoldField(f.name, f.tree, p)
}

// String returns the Raw.String() if Raw is not nil. Otherwise, it returns
// the field on a single line, with no trailing line break.
func (f *Field) String() string {
	if f.Raw != nil {
		return f.Raw.String()
	}

	s, err := f.Fold(fold.UnboundedPolicy)
	if err != nil {
		return f.name + ": " + f.tree.String()
	}
	return strings.TrimSuffix(s, fold.UnboundedPolicy.LineSeparator)
}

// Bytes returns the Raw.Bytes() if Raw is not nil. It returns the String()
// as bytes otherwise.
func (f *Field) Bytes() []byte {
	if f.Raw != nil {
		return f.Raw.Bytes()
	}
	return []byte(f.String())
}
