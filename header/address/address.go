// Package address turns parsed address-list trees into go-addr values, so
// callers can work with mailboxes without walking the token tree.
package address

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

// Parse parses an address list header body and returns its mailboxes. It
// never fails: the parser recovers from bad input, and whatever could not be
// understood as an addr-spec is kept as a bare local part. Members of groups
// are flattened into the list.
func Parse(body string) addr.AddressList {
	return FromTree(parser.ParseAddressList(body))
}

// FromTree converts the mailboxes found in an address-list, mailbox-list,
// group, or address tree into an addr.AddressList.
func FromTree(tree *token.List) addr.AddressList {
	mbs := tree.AllMailboxes()
	as := make(addr.AddressList, 0, len(mbs))
	for _, mb := range mbs {
		if a := mailbox(mb); a != nil {
			as = append(as, a)
		}
	}
	return as
}

// mailbox converts a single mailbox or invalid-mailbox into an addr.Address.
// It returns nil when there is nothing that looks like an address.
func mailbox(mb *token.List) addr.Address {
	orig := strings.TrimSpace(mb.String())

	lp, domain := mb.LocalPart(), mb.Domain()
	spec := mb.AddrSpec()
	if lp == "" && domain == "" {
		lp = strings.TrimSpace(mb.Value())
		spec = lp
	}

	if lp == "" && domain == "" {
		return nil
	}

	as := addr.NewAddrSpecParsed(lp, domain, spec)

	dn := mb.DisplayName()
	com := strings.TrimSpace(strings.Join(mb.Comments(), " "))
	m, err := addr.NewMailboxParsed(dn, as, com, orig)
	if err != nil {
		m, err = addr.NewMailboxParsed(dn, as, "", orig)
		if err != nil {
			return as
		}
	}
	return m
}
