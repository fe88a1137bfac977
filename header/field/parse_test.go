package field_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/field"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

func TestParseLines(t *testing.T) {
	t.Parallel()

	// basic parse, no folding
	input := []byte("a:\nb:\nc:\nd:\n")
	lines, err := field.ParseLines(input, field.LF)
	assert.NoError(t, err)
	assert.Equal(t, field.Lines{
		[]byte("a:\n"),
		[]byte("b:\n"),
		[]byte("c:\n"),
		[]byte("d:\n"),
	}, lines)

	// folding parse
	input = []byte("a:b\n b\n b\nb:\nc:\nd:\n\teeee\n")
	lines, err = field.ParseLines(input, field.LF)
	assert.NoError(t, err)
	assert.Equal(t, field.Lines{
		[]byte("a:b\n b\n b\n"),
		[]byte("b:\n"),
		[]byte("c:\n"),
		[]byte("d:\n\teeee\n"),
	}, lines)

	// folding parse, with start junk
	input = []byte(" start:\njunk\na:b\n b\n b\nb:\nc:\nd:\n\teeee\n")
	lines, err = field.ParseLines(input, field.LF)
	var badStart *field.BadStartError
	require.True(t, errors.As(err, &badStart))
	assert.Equal(t, []byte(" start:\njunk\n"), badStart.BadStart)
	assert.Equal(t, field.Lines{
		[]byte("a:b\n b\n b\n"),
		[]byte("b:\n"),
		[]byte("c:\n"),
		[]byte("d:\n\teeee\n"),
	}, lines)
}

func TestParse(t *testing.T) {
	t.Parallel()

	f := field.Parse([]byte("Subject: test\n"), field.LF)
	require.NotNil(t, f)
	require.NotNil(t, f.Raw)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "test", f.Body())
	assert.Equal(t, "Subject", f.Raw.Name())
	assert.Equal(t, " test", f.Raw.Body())
	assert.Equal(t, "Subject: test", f.Raw.String())
	assert.Equal(t, "Subject: test", f.String())

	f = field.Parse([]byte("Subject: =?utf-8?b?4pmg4pmj4pml4pmm?=\r\n"), field.CRLF)
	require.NotNil(t, f)
	require.NotNil(t, f.Raw)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "♠♣♥♦", f.Body())
	assert.Equal(t, "Subject", f.Raw.Name())
	assert.Equal(t, " =?utf-8?b?4pmg4pmj4pml4pmm?=", f.Raw.Body())
	assert.Equal(t, "Subject: =?utf-8?b?4pmg4pmj4pml4pmm?=", f.Raw.String())

	f = field.Parse([]byte("Subject"), field.LF)
	require.NotNil(t, f)
	require.NotNil(t, f.Raw)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "", f.Body())
	assert.Equal(t, "Subject", f.Raw.Name())
	assert.Equal(t, "", f.Raw.Body())
	assert.Equal(t, "Subject", f.Raw.String())

	f = field.Parse([]byte("Subject: hello\r\n world\r\n"), field.CRLF)
	assert.Equal(t, "hello world", f.Body())
	assert.Equal(t, "Subject: hello\r\n world", f.String())
}

func TestParseStructured(t *testing.T) {
	t.Parallel()

	f := field.Parse([]byte("To: a@example.com, B <b@example.com>\r\n"), field.CRLF)
	assert.Equal(t, token.AddressList, f.Tree().Kind())
	assert.Len(t, f.Tree().Mailboxes(), 2)
	assert.Empty(t, f.Defects())

	f = field.Parse([]byte("content-type: text/HTML; charset=utf-8\n"), field.LF)
	assert.Equal(t, token.ContentType, f.Tree().Kind())
	assert.Equal(t, "html", f.Tree().Subtype)

	f = field.Parse([]byte("Date: Mon, 02 Jan 2006 15:04:05 -0700\n"), field.LF)
	assert.Equal(t, token.Date, f.Tree().Kind())
	assert.Equal(t, 2006, f.Tree().Time.Year())

	f = field.Parse([]byte("References: <a@example.com> <b@example.com>\n"), field.LF)
	assert.Equal(t, token.MessageIDList, f.Tree().Kind())

	f = field.Parse([]byte("X-Custom: (hi) there\n"), field.LF)
	assert.Equal(t, token.Unstructured, f.Tree().Kind())
	assert.Equal(t, "(hi) there", f.Body())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	f := field.New("X-Registered-Ids", "<a@example.com>")
	assert.Equal(t, token.Unstructured, f.Tree().Kind())

	field.Register("x-registered-IDS", parser.ParseMessageIDs)
	f = field.New("X-Registered-Ids", "<a@example.com>")
	assert.Equal(t, token.MessageIDList, f.Tree().Kind())
}

func TestField_Fold(t *testing.T) {
	t.Parallel()

	f := field.New("Subject", "café")
	assert.Nil(t, f.Raw)

	out, err := f.Fold(nil)
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?utf-8?q?caf=C3=A9?=\r\n", out)
	assert.Equal(t, "Subject: =?utf-8?q?caf=C3=A9?=", f.String())
	assert.Equal(t, []byte("Subject: =?utf-8?q?caf=C3=A9?="), f.Bytes())
	assert.Equal(t, "café", f.Body())
}

func TestUnfold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("a b"), field.Unfold([]byte("a\r\n b")))
	assert.Equal(t, []byte("a\tb"), field.Unfold([]byte("a\n\tb")))
}

func TestGuessBreak(t *testing.T) {
	t.Parallel()

	assert.Equal(t, field.CRLF, field.GuessBreak([]byte("a\r\nb")))
	assert.Equal(t, field.LFCR, field.GuessBreak([]byte("a\n\rb")))
	assert.Equal(t, field.LF, field.GuessBreak([]byte("a\nb")))
	assert.Equal(t, field.CR, field.GuessBreak([]byte("a\rb")))
	assert.Equal(t, field.CRLF, field.GuessBreak([]byte("ab")))
}

func TestBreak(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\r\n", field.CRLF.String())
	assert.Equal(t, []byte("\n"), field.LF.Bytes())
	assert.Equal(t, "", field.Meh.String())
}

func TestScanner(t *testing.T) {
	t.Parallel()

	const in = "junk line\nFrom: a@example.com\nSubject: hello\n world\nX-Empty:\n\nbody text: not a header\n"
	s := field.NewScanner(strings.NewReader(in), field.LF)

	var names, bodies []string
	for s.Scan() {
		names = append(names, s.Field().Name())
		bodies = append(bodies, s.Field().Body())
	}

	assert.Equal(t, []string{"From", "Subject", "X-Empty"}, names)
	assert.Equal(t, []string{"a@example.com", "hello world", ""}, bodies)
	assert.Nil(t, s.Field())

	var badStart *field.BadStartError
	require.True(t, errors.As(s.Err(), &badStart))
	assert.Equal(t, []byte("junk line\n"), badStart.BadStart)
}

func TestScannerEOF(t *testing.T) {
	t.Parallel()

	s := field.NewScanner(strings.NewReader("Subject: x\r\n continued"), field.CRLF)
	require.True(t, s.Scan())
	assert.Equal(t, "x continued", s.Field().Body())
	assert.Equal(t, "Subject: x\r\n continued", s.Field().String())
	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())
}
