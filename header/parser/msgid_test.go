package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

func TestParseMessageID(t *testing.T) {
	t.Parallel()

	const in = "<abc.def@example.com>"
	m := parser.ParseMessageID(in)
	assert.Equal(t, token.MessageID, m.Kind())
	assert.Equal(t, in, m.String())
	assert.Empty(t, m.AllDefects())

	m = parser.ParseMessageID(" <1234@[10.0.0.1]> (comment)")
	assert.Equal(t, token.MessageID, m.Kind())
	assert.Equal(t, " <1234@[10.0.0.1]> (comment)", m.String())
	assert.Empty(t, m.AllDefects())
}

func TestParseMessageIDObsolete(t *testing.T) {
	t.Parallel()

	m := parser.ParseMessageID(`<"quoted"@example.com>`)
	assert.Equal(t, token.MessageID, m.Kind())
	assert.True(t, defect.Has(m.AllDefects(), defect.Obsolete))
	assert.False(t, defect.Has(m.AllDefects(), defect.Invalid))
}

func TestParseMessageIDInvalid(t *testing.T) {
	t.Parallel()

	m := parser.ParseMessageID("not an id")
	assert.Equal(t, token.InvalidMessageID, m.Kind())
	assert.Equal(t, "not an id", m.String())
	assert.True(t, defect.Has(m.Defects(), defect.Invalid))

	m = parser.ParseMessageID("<abc@example.com> trailing")
	assert.Equal(t, token.MessageID, m.Kind())
	assert.Equal(t, "<abc@example.com> trailing", m.String())
	assert.True(t, defect.Has(m.Defects(), defect.Invalid))

	m = parser.ParseMessageID("<abc@example.com")
	assert.True(t, defect.Has(m.AllDefects(), defect.Invalid))
}

func TestParseMessageIDs(t *testing.T) {
	t.Parallel()

	const in = "<a@example.com> <b@example.com>\t<c@example.com>"
	ids := parser.ParseMessageIDs(in)
	assert.Equal(t, in, ids.String())
	assert.Empty(t, ids.AllDefects())

	n := 0
	for _, c := range ids.Children() {
		if c.Kind() == token.MsgID {
			n++
		}
	}
	assert.Equal(t, 3, n)
}

func TestParseMessageIDsRecovers(t *testing.T) {
	t.Parallel()

	const in = "<a@example.com>, junk <b@example.com>"
	ids := parser.ParseMessageIDs(in)
	assert.Equal(t, in, ids.String())
	assert.True(t, defect.Has(ids.AllDefects(), defect.Invalid))

	var kinds []token.Kind
	for _, c := range ids.Children() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []token.Kind{
		token.MsgID,
		token.InvalidMessageID,
		token.CFWS,
		token.InvalidMessageID,
		token.MsgID,
	}, kinds)
}

func TestParseMessageIDsNeverAborts(t *testing.T) {
	t.Parallel()

	ins := []string{"", ",", "<", ">", "<>", "<@>", "<a@", "a b c", "<<a@b>>", "\xff"}
	for _, in := range ins {
		ids := parser.ParseMessageIDs(in)
		require.NotNil(t, ids, "parse of %q", in)
		assert.Equal(t, in, ids.String(), "round trip of %q", in)
	}
}
