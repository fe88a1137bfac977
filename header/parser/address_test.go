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

func firstList(t *testing.T, tok token.Token) *token.List {
	t.Helper()
	l, ok := tok.(*token.List)
	require.True(t, ok, "expected a list but found %T", tok)
	return l
}

func TestParseAddressListSimpleMailbox(t *testing.T) {
	t.Parallel()

	al := parser.ParseAddressList("Jane Doe <jane@example.com>")
	assert.Equal(t, "Jane Doe <jane@example.com>", al.String())
	assert.Empty(t, al.AllDefects())

	as := al.Addresses()
	require.Len(t, as, 1)
	mbs := as[0].Mailboxes()
	require.Len(t, mbs, 1)

	mb := mbs[0]
	assert.Equal(t, token.Mailbox, mb.Kind())
	assert.Equal(t, "jane", mb.LocalPart())
	assert.Equal(t, "example.com", mb.Domain())
	assert.Equal(t, "Jane Doe", mb.DisplayName())
	assert.Equal(t, "jane@example.com", mb.AddrSpec())
	assert.Equal(t, "Jane Doe", as[0].DisplayName())
}

func TestParseAddressListEmptyGroup(t *testing.T) {
	t.Parallel()

	al := parser.ParseAddressList("Undisclosed:;")
	assert.Equal(t, "Undisclosed:;", al.String())

	as := al.Addresses()
	require.Len(t, as, 1)
	g := firstList(t, as[0].First())
	assert.Equal(t, token.Group, g.Kind())
	assert.Equal(t, "Undisclosed", g.DisplayName())
	assert.Empty(t, g.Mailboxes())
	assert.Empty(t, al.Mailboxes())
}

func TestParseAddressListEncodedDisplayName(t *testing.T) {
	t.Parallel()

	const in = "=?utf-8?q?Jos=C3=A9?= <jose@example.com>"
	al := parser.ParseAddressList(in)
	assert.Equal(t, in, al.String())
	assert.Empty(t, al.AllDefects())

	mbs := al.Mailboxes()
	require.Len(t, mbs, 1)
	assert.Equal(t, "José", mbs[0].DisplayName())
	assert.Equal(t, "jose@example.com", mbs[0].AddrSpec())
}

func TestParseAddressListTrailingGarbage(t *testing.T) {
	t.Parallel()

	const in = "a@b.com, %%%"
	al := parser.ParseAddressList(in)
	assert.Equal(t, in, al.String())

	as := al.Addresses()
	require.Len(t, as, 2)
	assert.Empty(t, as[0].AllDefects())

	bad := as[1]
	assert.Equal(t, " %%%", bad.String())
	assert.Equal(t, token.InvalidMailbox, bad.First().Kind())
	assert.True(t, defect.Has(bad.AllDefects(), defect.Invalid))

	assert.Len(t, al.Mailboxes(), 1)
	assert.Len(t, al.AllMailboxes(), 2)
}

func TestParseAddressListGroup(t *testing.T) {
	t.Parallel()

	const in = "Friends: a@example.com, \"Bee, B.\" <b@example.com>;, c@example.com"
	al := parser.ParseAddressList(in)
	assert.Equal(t, in, al.String())
	assert.Empty(t, al.AllDefects())

	as := al.Addresses()
	require.Len(t, as, 2)
	assert.Equal(t, "Friends", as[0].DisplayName())

	mbs := al.Mailboxes()
	require.Len(t, mbs, 3)
	assert.Equal(t, "a@example.com", mbs[0].AddrSpec())
	assert.Equal(t, "Bee, B.", mbs[1].DisplayName())
	assert.Equal(t, "b@example.com", mbs[1].AddrSpec())
	assert.Equal(t, "c@example.com", mbs[2].AddrSpec())
}

func TestParseAddressListRoundTrip(t *testing.T) {
	t.Parallel()

	ins := []string{
		"jane@example.com",
		"Jane Doe <jane@example.com>, bob@example.org",
		"\"Doe, Jane\" <jane@example.com>",
		"jane@example.com (Jane Doe)",
		"Jane  Doe\t<jane@example.com>",
		"<jane@example.com>",
		"\"quoted local\"@example.com",
		"jane@[192.168.0.1]",
		"Team: a@example.com, b@example.com;",
		"a@example.com, b@example.com, c@example.com",
		"=?utf-8?b?SsO2cmc=?= <jorg@example.com>",
	}
	for _, in := range ins {
		al := parser.ParseAddressList(in)
		assert.Equal(t, in, al.String(), "round trip of %q", in)
	}
}

func TestParseAddressListNeverAborts(t *testing.T) {
	t.Parallel()

	ins := []string{
		"", ",", ",,,", "<", ">", "<>", "\"", "(", ")", "=?", "=?utf-8?q?",
		"@", ":", ":;", ";;;", "a@", "@b", "<<>>", "\\", "\x00\xff", "[",
		"a@[", "(((", "a@b c d", "g: a@b c, d;", "Foo <a@b", "a.@b", "..@..",
		"<@route:a@b>", "\"unterminated <a@b>", "a@b.com, %%%", ",a@b,",
	}
	for _, in := range ins {
		al := parser.ParseAddressList(in)
		require.NotNil(t, al, "parse of %q", in)
		assert.Equal(t, token.AddressList, al.Kind())
	}
}

func TestGetAddrSpecQuotedLocalPart(t *testing.T) {
	t.Parallel()

	as, rest, err := parser.GetAddrSpec("\"john doe\"@example.com")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, "john doe", as.LocalPart())
	assert.Equal(t, "\"john doe\"@example.com", as.AddrSpec())
}

func TestGetAddrSpecObsoleteLocalPart(t *testing.T) {
	t.Parallel()

	as, rest, err := parser.GetAddrSpec("john . doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, "john.doe", as.LocalPart())
	assert.True(t, defect.Has(as.AllDefects(), defect.Obsolete))
	assert.False(t, defect.Has(as.AllDefects(), defect.Invalid))
}

func TestGetAddrSpecNoDomain(t *testing.T) {
	t.Parallel()

	as, _, err := parser.GetAddrSpec("jane")
	require.NoError(t, err)
	assert.True(t, defect.Has(as.Defects(), defect.Invalid))
	assert.Equal(t, "jane", as.AddrSpec())
}

func TestGetAngleAddrNull(t *testing.T) {
	t.Parallel()

	aa, rest, err := parser.GetAngleAddr("<>")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, "<>", aa.AddrSpec())
	assert.True(t, defect.Has(aa.Defects(), defect.Invalid))
}

func TestGetAngleAddrObsoleteRoute(t *testing.T) {
	t.Parallel()

	aa, rest, err := parser.GetAngleAddr("<@one.example,@two.example:jane@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, []string{"one.example", "two.example"}, aa.Route())
	assert.Equal(t, "jane@example.com", aa.AddrSpec())
	assert.True(t, defect.Has(aa.Defects(), defect.Obsolete))
}

func TestGetMailboxFailsWithoutConsuming(t *testing.T) {
	t.Parallel()

	mb, rest, err := parser.GetMailbox("@nope")
	assert.Nil(t, mb)
	assert.Equal(t, "@nope", rest)
	assert.Error(t, err)

	var pe *parser.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestGetDomainLiteral(t *testing.T) {
	t.Parallel()

	d, rest, err := parser.GetDomain("[127.0.0.1] rest")
	require.NoError(t, err)
	assert.Equal(t, "rest", rest)
	assert.Equal(t, "[127.0.0.1]", d.Domain())
}

func TestGetDomainObsolete(t *testing.T) {
	t.Parallel()

	d, rest, err := parser.GetDomain("example . com")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.Equal(t, "example.com", d.Domain())
	assert.True(t, defect.Has(d.Defects(), defect.Obsolete))
}
