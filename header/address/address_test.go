package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-headervalue/header/address"
	"github.com/zostay/go-headervalue/header/parser"
)

func mustMailbox(t *testing.T, dn, lp, domain, spec, orig string) *addr.Mailbox {
	t.Helper()
	mb, err := addr.NewMailboxParsed(dn, addr.NewAddrSpecParsed(lp, domain, spec), "", orig)
	require.NoError(t, err)
	return mb
}

func TestParse(t *testing.T) {
	t.Parallel()

	al := address.Parse("John Doe <john@example.com>, jane@example.com")
	assert.Equal(t, addr.AddressList{
		mustMailbox(t, "John Doe", "john", "example.com", "john@example.com", "John Doe <john@example.com>"),
		mustMailbox(t, "", "jane", "example.com", "jane@example.com", "jane@example.com"),
	}, al)
}

func TestParseGroup(t *testing.T) {
	t.Parallel()

	al := address.Parse("Friends: a@example.com, b@example.com;")
	assert.Equal(t, addr.AddressList{
		mustMailbox(t, "", "a", "example.com", "a@example.com", "a@example.com"),
		mustMailbox(t, "", "b", "example.com", "b@example.com", "b@example.com"),
	}, al)

	assert.Empty(t, address.Parse("Undisclosed recipients:;"))
}

func TestParseLenient(t *testing.T) {
	t.Parallel()

	al := address.Parse("blah")
	assert.Equal(t, addr.AddressList{
		mustMailbox(t, "", "blah", "", "blah", "blah"),
	}, al)

	assert.Empty(t, address.Parse(""))
}

func TestFromTree(t *testing.T) {
	t.Parallel()

	tree := parser.ParseAddressList(`"Doe, John" <john@example.com>`)
	al := address.FromTree(tree)
	assert.Equal(t, addr.AddressList{
		mustMailbox(t, "Doe, John", "john", "example.com", "john@example.com", `"Doe, John" <john@example.com>`),
	}, al)
}
