package parser

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/araddon/dateparse"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/token"
)

// UnixDateWithEarlyYear is a weird one, eh? It is seen in the Date headers
// of some old mail.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// ParseAddressList parses the value of an address list header such as To,
// Cc, or From. It returns an address-list for any input.
func ParseAddressList(s string) *token.List {
	return GetAddressList(s)
}

// ParseUnstructured parses the value of an unstructured header such as
// Subject, decoding any encoded words.
func ParseUnstructured(s string) *token.List {
	return GetUnstructured(s)
}

// ParseTime parses a date using the format of RFC 5322 first and falls back
// to many other formats.
func ParseTime(s string) (time.Time, error) {
	t, err := mail.ParseDate(s)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, s)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", s)
}

// ParseDate parses the value of a Date header. The text is kept as
// unstructured children and the time is cached in the Time field of the
// result. A date that cannot be parsed leaves Time as the zero time and is
// recorded as a defect.
func ParseDate(s string) *token.List {
	u := GetUnstructured(s)
	d := token.NewList(token.Date, u.Children()...)
	d.AddDefect(u.Defects()...)

	v := trimSpace(s)
	if v == "" {
		d.AddDefect(defect.New(defect.MissingRequiredValue, "missing date"))
		return d
	}

	t, err := ParseTime(v)
	if err != nil {
		d.AddDefect(defect.New(defect.InvalidDate, err.Error()))
		return d
	}
	d.Time = t
	return d
}
