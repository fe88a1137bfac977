// Package header holds a complete message header: an ordered list of fields
// that may be parsed from input, inspected through the token trees of its
// fields, modified, and written back out. Fields read from input are written
// back byte for byte. New or replaced fields are folded on output.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-headervalue/header/address"
	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/field"
	"github.com/zostay/go-headervalue/header/fold"
	"github.com/zostay/go-headervalue/header/param"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

// Errors returned by various header methods.
var (
	// ErrNoSuchField is returned when the named field is not present.
	ErrNoSuchField = errors.New("no such header field")

	// ErrManyFields is returned when a single field was requested, but the
	// named field occurs more than once. The first value is returned with it.
	ErrManyFields = errors.New("many header fields found")

	// ErrIndexOutOfRange is returned when an attempt is made to access a
	// header field index that is too large or too small.
	ErrIndexOutOfRange = errors.New("header field index is out of range")

	// ErrNoTime is returned when a date field holds no usable date.
	ErrNoTime = errors.New("header field holds no date")
)

// These are standard headers defined in RFC 5322 and RFC 2045.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-Reply-To"
	MessageID               = "Message-ID"
	References              = "References"
	ReplyTo                 = "Reply-To"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

// Header is an ordered list of header fields. The zero value is an empty
// header using CRLF line breaks and fold.DefaultPolicy.
type Header struct {
	lbr    field.Break
	policy *fold.Policy
	fields []*field.Field
}

// Break returns the line break used to separate header fields and terminate
// the header.
func (h *Header) Break() field.Break {
	if h.lbr == field.Meh {
		return field.CRLF
	}
	return h.lbr
}

// SetBreak changes the line break to use with this header.
func (h *Header) SetBreak(lbr field.Break) {
	h.lbr = lbr
}

// Policy returns the fold policy applied to fields that have no original
// bytes. Its line separator is always the header's Break.
func (h *Header) Policy() *fold.Policy {
	p := *fold.DefaultPolicy
	if h.policy != nil {
		p = *h.policy
	}
	p.LineSeparator = h.Break().String()
	return &p
}

// SetPolicy changes the fold policy. The line separator of p is ignored in
// favor of the header's Break.
func (h *Header) SetPolicy(p *fold.Policy) {
	h.policy = p
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil if n is out of range.
func (h *Header) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetFieldNamed returns the nth (0-indexed) field with the given name or nil
// if no such field is set.
func (h *Header) GetFieldNamed(name string, n int) *field.Field {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			if n == 0 {
				return f
			}
			n--
		}
	}
	return nil
}

// GetAllFieldsNamed returns all the fields with the given name.
func (h *Header) GetAllFieldsNamed(name string) []*field.Field {
	var fs []*field.Field
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	var is []int
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// ListFields returns all the fields in the header.
func (h *Header) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField will insert a new field with the given name and body at
// index n. An n out of range is clamped to the start or end of the header.
func (h *Header) InsertBeforeField(n int, name, body string) {
	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// ClearFields removes all fields from the header.
func (h *Header) ClearFields() {
	h.fields = h.fields[:0]
}

// DeleteField removes the nth field from the header.
func (h *Header) DeleteField(n int) error {
	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]
	return nil
}

// single returns the only field with the given name, or the first one along
// with ErrManyFields.
func (h *Header) single(name string) (*field.Field, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return nil, ErrNoSuchField
	}

	f := h.fields[ixs[0]]
	if len(ixs) > 1 {
		return f, ErrManyFields
	}
	return f, nil
}

// Get retrieves the semantic value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple fields with the given name, it
// will return the first value found and ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	f, err := h.single(name)
	if f == nil {
		return "", err
	}
	return f.Body(), err
}

// GetAll fetches the values of all fields with the given name.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// Set will replace all existing fields with the given name with a single
// field. If the field already exists, the first occurrence is replaced in
// place and the others are deleted. Otherwise, it is appended.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(len(h.fields), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}
	h.fields[ixs[0]] = field.New(name, body)
}

// SetAll replaces all fields with the given name with the bodies given.
// Existing fields are replaced in place, extra bodies are appended to the end
// of the header and leftover fields are deleted.
func (h *Header) SetAll(name string, bodies ...string) {
	ixs := h.GetIndexesNamed(name)

	for i, b := range bodies {
		if i < len(ixs) {
			h.fields[ixs[i]] = field.New(name, b)
			continue
		}
		h.InsertBeforeField(len(h.fields), name, b)
	}

	for i := len(ixs) - 1; i >= len(bodies); i-- {
		_ = h.DeleteField(ixs[i])
	}
}

// GetTime returns the date held by the named field.
func (h *Header) GetTime(name string) (time.Time, error) {
	f, err := h.single(name)
	if f == nil {
		return time.Time{}, err
	}

	t := f.Tree()
	if t.Kind() != token.Date {
		t = parser.ParseDate(f.Body())
	}

	if t.Time.IsZero() {
		return time.Time{}, fmt.Errorf("field %q: %w", name, ErrNoTime)
	}
	return t.Time, err
}

// SetTime replaces the named field with the given time in RFC 5322 format.
func (h *Header) SetTime(name string, t time.Time) {
	h.Set(name, t.Format(time.RFC1123Z))
}

// GetAddressList returns the mailboxes of the named field. The field is read
// as an address list whatever its name.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	f, err := h.single(name)
	if f == nil {
		return nil, err
	}

	if f.Tree().Kind() == token.AddressList {
		return address.FromTree(f.Tree()), err
	}
	return address.Parse(f.Body()), err
}

// SetAddressList replaces the named field with the given addresses.
func (h *Header) SetAddressList(name string, as ...addr.Address) {
	h.Set(name, addr.AddressList(as).String())
}

// GetParamValue returns the named field as a value with parameters, such as
// a Content-Type or Content-Disposition.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	f, err := h.single(name)
	if f == nil {
		return nil, err
	}

	switch f.Tree().Kind() {
	case token.ContentType, token.ContentDisposition:
		return param.FromTree(f.Tree()), err
	}

	pv, perr := param.Parse(f.Body())
	if perr != nil {
		return nil, perr
	}
	return pv, err
}

// SetParamValue replaces the named field with the given value.
func (h *Header) SetParamValue(name string, pv *param.Value) {
	h.Set(name, pv.String())
}

// GetMessageIDs returns every msg-id found in the named fields, with the
// angle brackets kept.
func (h *Header) GetMessageIDs(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	var ids []string
	for _, f := range fs {
		for _, c := range f.Tree().Children() {
			if c.Kind() == token.MsgID {
				ids = append(ids, strings.TrimSpace(c.Value()))
			}
		}
	}
	return ids, nil
}

// Defects returns the defects of every field, keyed by field index.
func (h *Header) Defects() map[int][]*defect.Defect {
	ds := make(map[int][]*defect.Defect)
	for i, f := range h.fields {
		if fds := f.Defects(); len(fds) > 0 {
			ds[i] = fds
		}
	}
	return ds
}

// WriteTo writes the header, including the blank line that ends it. Fields
// with original bytes are written as they were read. Other fields are folded
// according to the Policy.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	lbr := h.Break().Bytes()
	p := h.Policy()

	var total int64
	write := func(b []byte) error {
		n, err := w.Write(b)
		total += int64(n)
		return err
	}

	for _, f := range h.fields {
		if f.Raw != nil {
			if err := write(f.Raw.Bytes()); err != nil {
				return total, err
			}
			if err := write(lbr); err != nil {
				return total, err
			}
			continue
		}

		s, err := f.Fold(p)
		if err != nil {
			return total, fmt.Errorf("unable to fold %q: %w", f.Name(), err)
		}
		if err := write([]byte(s)); err != nil {
			return total, err
		}
	}

	err := write(lbr)
	return total, err
}

// Bytes returns the header as it would be written by WriteTo. A field that
// cannot be folded is written on one line.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		buf.Reset()
		for _, f := range h.fields {
			buf.Write(f.Bytes())
			buf.Write(h.Break().Bytes())
		}
		buf.Write(h.Break().Bytes())
	}
	return buf.Bytes()
}

// String returns the header as a string.
func (h *Header) String() string {
	return string(h.Bytes())
}

// Clone returns a copy of the header. Fields are immutable, so they are
// shared with the copy.
func (h *Header) Clone() *Header {
	return &Header{
		lbr:    h.lbr,
		policy: h.policy,
		fields: h.ListFields(),
	}
}
