package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

func TestGetUnstructured(t *testing.T) {
	t.Parallel()

	u := parser.GetUnstructured("Hello,   world")
	assert.Equal(t, "Hello,   world", u.String())
	assert.Equal(t, "Hello, world", u.Value())
	assert.Empty(t, u.AllDefects())
}

func TestGetUnstructuredEncodedWords(t *testing.T) {
	t.Parallel()

	const in = "=?utf-8?q?caf=C3=A9?= =?utf-8?q?_au_lait?= today"
	u := parser.GetUnstructured(in)
	assert.Equal(t, in, u.String())
	assert.Equal(t, "café au lait today", u.Value())
	assert.Equal(t, "café au lait today", u.Rendered())
	assert.Empty(t, u.AllDefects())
}

func TestGetUnstructuredMissingWhitespace(t *testing.T) {
	t.Parallel()

	const in = "foo=?utf-8?q?bar?="
	u := parser.GetUnstructured(in)
	assert.Equal(t, in, u.String())
	assert.Equal(t, "foobar", u.Value())
	assert.True(t, defect.Has(u.AllDefects(), defect.Invalid))
}

func TestGetUnstructuredBadEncodedWord(t *testing.T) {
	t.Parallel()

	const in = "=?utf-8?x?nope?= ok"
	u := parser.GetUnstructured(in)
	assert.Equal(t, in, u.String())
	assert.Equal(t, in, u.Value())
}

func TestGetEncodedWord(t *testing.T) {
	t.Parallel()

	ew, rest, err := parser.GetEncodedWord("=?iso-8859-1?q?h=E9llo?= there", token.VText)
	require.NoError(t, err)
	assert.Equal(t, " there", rest)
	assert.Equal(t, "=?iso-8859-1?q?h=E9llo?=", ew.String())
	assert.Equal(t, "héllo", ew.Value())
	assert.Equal(t, "iso-8859-1", ew.Charset)
	assert.Empty(t, ew.AllDefects())

	_, rest, err = parser.GetEncodedWord("=?utf-8?z?abc?=", token.VText)
	assert.True(t, errors.Is(err, parser.ErrInvalidEncodedWord))
	assert.Equal(t, "=?utf-8?z?abc?=", rest)

	_, _, err = parser.GetEncodedWord("plain", token.VText)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, parser.ErrInvalidEncodedWord))
}

func TestGetEncodedWordHexContinuation(t *testing.T) {
	t.Parallel()

	ew, rest, err := parser.GetEncodedWord("=?utf-8?q?=41bc?= x", token.VText)
	require.NoError(t, err)
	assert.Equal(t, " x", rest)
	assert.Equal(t, "=?utf-8?q?=41bc?=", ew.String())
	assert.Equal(t, "Abc", ew.Value())
}

func TestGetComment(t *testing.T) {
	t.Parallel()

	c, rest, err := parser.GetComment("(a (nested) \\) comment) after")
	require.NoError(t, err)
	assert.Equal(t, " after", rest)
	assert.Equal(t, "(a (nested) \\) comment)", c.String())
	assert.Equal(t, " ", c.Value())
	assert.Equal(t, []string{"a (nested) ) comment"}, c.Comments())

	c, rest, err = parser.GetComment("(unterminated")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.True(t, defect.Has(c.Defects(), defect.Invalid))
}

func TestGetCFWS(t *testing.T) {
	t.Parallel()

	cfws, rest := parser.GetCFWS(" (one)\t(two) x")
	assert.Equal(t, "x", rest)
	assert.Equal(t, " (one)\t(two) ", cfws.String())
	assert.Equal(t, " ", cfws.Value())
	assert.Equal(t, []string{"one", "two"}, cfws.Comments())
}

func TestGetQuotedString(t *testing.T) {
	t.Parallel()

	qs, rest, err := parser.GetQuotedString(` "a \"b\"  c" rest`)
	require.NoError(t, err)
	assert.Equal(t, "rest", rest)
	assert.Equal(t, ` "a \"b\"  c" `, qs.String())
	assert.Equal(t, `a "b"  c`, qs.Content())
	assert.Equal(t, `a "b"  c`, qs.StrippedValue())
}

func TestGetQuotedStringUnterminated(t *testing.T) {
	t.Parallel()

	qs, rest, err := parser.GetQuotedString(`"abc`)
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, "abc", qs.Content())
	assert.True(t, defect.Has(qs.AllDefects(), defect.Invalid))
}

func TestGetDotAtomText(t *testing.T) {
	t.Parallel()

	dat, rest, err := parser.GetDotAtomText("a.b.c@x")
	require.NoError(t, err)
	assert.Equal(t, "@x", rest)
	assert.Equal(t, "a.b.c", dat.String())

	_, rest, err = parser.GetDotAtomText("a.@x")
	assert.Error(t, err)
	assert.Equal(t, "a.@x", rest)
}

func TestGetPhraseObsolete(t *testing.T) {
	t.Parallel()

	p, rest, err := parser.GetPhrase("John Q. Public <jqp@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "<jqp@example.com>", rest)
	assert.Equal(t, "John Q. Public ", p.Value())
	assert.True(t, defect.Has(p.Defects(), defect.Obsolete))
}

func TestGetWordFails(t *testing.T) {
	t.Parallel()

	w, rest, err := parser.GetWord("  ")
	assert.Nil(t, w)
	assert.Equal(t, "  ", rest)
	assert.Error(t, err)
}

func TestValidateNonPrintable(t *testing.T) {
	t.Parallel()

	u := parser.GetUnstructured("bell\x07 here")
	assert.True(t, defect.Has(u.AllDefects(), defect.NonPrintable))

	u = parser.GetUnstructured("bad \xff byte")
	assert.True(t, defect.Has(u.AllDefects(), defect.UndecodableBytes))
	assert.Equal(t, "bad \xff byte", u.String())
}
