package token

// Kind names the grammar rule that produced a token. The names follow the
// production names of RFC 5322, RFC 2045, RFC 2047, and RFC 2231 wherever
// there is one.
type Kind string

// Kinds of Terminal tokens.
const (
	FWS                 Kind = "fws"
	PText               Kind = "ptext"
	VText               Kind = "vtext"
	UText               Kind = "utext"
	AText               Kind = "atext"
	TText               Kind = "ttext"
	XText               Kind = "xtext"
	AttrText            Kind = "attrtext"
	ExtendedAttrText    Kind = "extended-attrtext"
	Dot                 Kind = "dot"
	ListSeparator       Kind = "list-separator"
	RouteMarker         Kind = "route-component-marker"
	MisplacedSpecial    Kind = "misplaced-special"
	AtSymbol            Kind = "address-at-symbol"
	AngleAddrStart      Kind = "angle-addr-start"
	AngleAddrEnd        Kind = "angle-addr-end"
	DomainLiteralStart  Kind = "domain-literal-start"
	DomainLiteralEnd    Kind = "domain-literal-end"
	GroupNameTerminator Kind = "group-display-name-terminator"
	GroupTerminator     Kind = "group-terminator"
	ObsRouteEnd         Kind = "end-of-obs-route-marker"
	MsgIDStart          Kind = "msg-id-start"
	MsgIDEnd            Kind = "msg-id-end"
	NoFoldLiteralStart  Kind = "no-fold-literal-start"
	NoFoldLiteralEnd    Kind = "no-fold-literal-end"
	SectionMarker       Kind = "section-marker"
	Digits              Kind = "digits"
	ExtendedMarker      Kind = "extended-parameter-marker"
	ParameterSeparator  Kind = "parameter-separator"
	RFC2231Delimiter    Kind = "RFC2231-delimiter"
	DQuote              Kind = "DQUOTE"
	QuotedText          Kind = "quoted-text"
	ContentTypeSep      Kind = "content-type-separator"
	VersionSeparator    Kind = "version-separator"
	HeaderName          Kind = "header-name"
	HeaderSep           Kind = "header-sep"
)

// Kinds of List tokens.
const (
	Generic                 Kind = ""
	Unstructured            Kind = "unstructured"
	Phrase                  Kind = "phrase"
	CFWS                    Kind = "cfws"
	Comment                 Kind = "comment"
	Atom                    Kind = "atom"
	MIMEToken               Kind = "token"
	EncodedWord             Kind = "encoded-word"
	QuotedString            Kind = "quoted-string"
	BareQuotedString        Kind = "bare-quoted-string"
	AddressList             Kind = "address-list"
	Address                 Kind = "address"
	MailboxList             Kind = "mailbox-list"
	GroupList               Kind = "group-list"
	Group                   Kind = "group"
	NameAddr                Kind = "name-addr"
	AngleAddr               Kind = "angle-addr"
	ObsRoute                Kind = "obs-route"
	Mailbox                 Kind = "mailbox"
	InvalidMailbox          Kind = "invalid-mailbox"
	Domain                  Kind = "domain"
	DotAtom                 Kind = "dot-atom"
	DotAtomText             Kind = "dot-atom-text"
	NoFoldLiteral           Kind = "no-fold-literal"
	AddrSpec                Kind = "addr-spec"
	ObsLocalPart            Kind = "obs-local-part"
	InvalidObsLocalPart     Kind = "invalid-obs-local-part"
	DisplayName             Kind = "display-name"
	LocalPart               Kind = "local-part"
	DomainLiteral           Kind = "domain-literal"
	MIMEVersion             Kind = "mime-version"
	Parameter               Kind = "parameter"
	InvalidParameter        Kind = "invalid-parameter"
	Attribute               Kind = "attribute"
	Section                 Kind = "section"
	Value                   Kind = "value"
	MIMEParameters          Kind = "mime-parameters"
	ContentType             Kind = "content-type"
	ContentDisposition      Kind = "content-disposition"
	ContentTransferEncoding Kind = "content-transfer-encoding"
	HeaderLabel             Kind = "header-label"
	MsgID                   Kind = "msg-id"
	MessageID               Kind = "message-id"
	InvalidMessageID        Kind = "invalid-message-id"
	MessageIDList           Kind = "message-id-list"
	Header                  Kind = "header"
	Date                    Kind = "date"
)

// retags lists the only kind changes permitted by Retag. These happen when a
// subtree that parsed as valid turns out to hold serious defects.
var retags = map[Kind]Kind{
	Mailbox:      InvalidMailbox,
	Group:        InvalidMailbox,
	Parameter:    InvalidParameter,
	ObsLocalPart: InvalidObsLocalPart,
}

// noEW lists the List kinds that may never be wrapped as an encoded word,
// whatever their children allow.
var noEW = map[Kind]bool{
	Domain:                  true,
	AddrSpec:                true,
	LocalPart:               true,
	ObsLocalPart:            true,
	InvalidObsLocalPart:     true,
	DomainLiteral:           true,
	NoFoldLiteral:           true,
	ContentType:             true,
	ContentDisposition:      true,
	ContentTransferEncoding: true,
	HeaderLabel:             true,
	MsgID:                   true,
	MessageID:               true,
	InvalidMessageID:        true,
}

// noBreak lists the List kinds that are not syntactic breaks: the folder
// keeps them on the current line rather than moving them whole to a new one.
var noBreak = map[Kind]bool{
	MIMEParameters:     true,
	ContentType:        true,
	ContentDisposition: true,
}

// IsMsgID reports whether the kind is one of the message-id kinds, which are
// never folded.
func (k Kind) IsMsgID() bool {
	return k == MsgID || k == MessageID || k == InvalidMessageID
}

// IsParameter reports whether the kind is a parameter, valid or not.
func (k Kind) IsParameter() bool {
	return k == Parameter || k == InvalidParameter
}
