package field

import (
	"strings"
	"sync"

	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

// ParserFunc parses a header field body into a token tree. It must always
// return a tree, recording problems as defects.
type ParserFunc func(body string) *token.List

var (
	registryLock sync.RWMutex
	registry     = map[string]ParserFunc{
		"from":                      parser.ParseAddressList,
		"sender":                    parser.ParseAddressList,
		"reply-to":                  parser.ParseAddressList,
		"to":                        parser.ParseAddressList,
		"cc":                        parser.ParseAddressList,
		"bcc":                       parser.ParseAddressList,
		"resent-from":               parser.ParseAddressList,
		"resent-sender":             parser.ParseAddressList,
		"resent-to":                 parser.ParseAddressList,
		"resent-cc":                 parser.ParseAddressList,
		"resent-bcc":                parser.ParseAddressList,
		"message-id":                parser.ParseMessageID,
		"resent-message-id":         parser.ParseMessageID,
		"content-id":                parser.ParseMessageID,
		"in-reply-to":               parser.ParseMessageIDs,
		"references":                parser.ParseMessageIDs,
		"content-type":              parser.ParseContentType,
		"content-disposition":       parser.ParseContentDisposition,
		"content-transfer-encoding": parser.ParseContentTransferEncoding,
		"mime-version":              parser.ParseMIMEVersion,
		"date":                      parser.ParseDate,
		"resent-date":               parser.ParseDate,
	}
)

// Register installs the parser used for fields with the given name, matched
// without regard to case. It replaces any parser already registered.
func Register(name string, p ParserFunc) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[strings.ToLower(name)] = p
}

// ParserFor returns the parser registered for the named field. Fields with
// no registered parser are parsed as unstructured text.
func ParserFor(name string) ParserFunc {
	registryLock.RLock()
	defer registryLock.RUnlock()
	if p, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return parser.ParseUnstructured
}
