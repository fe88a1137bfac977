package fold

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zostay/go-headervalue/header/charset"
	"github.com/zostay/go-headervalue/header/token"
)

// foldParams writes each parameter of mp, starting a new line whenever the
// next one does not fit. A parameter too long for a line of its own is split
// into RFC 2231 sections.
func (f *folder) foldParams(mp *token.List, encoding string) {
	maxlen := f.maxlen
	for _, prm := range mp.Params() {
		if !strings.HasSuffix(strings.TrimRight(f.last(), " \t\r\n"), ";") {
			f.appendLast(";")
		}

		cs := encoding
		required := !charset.CanEncode(encoding, prm.Value)
		if required {
			if utf8.ValidString(prm.Value) {
				cs = "utf-8"
			} else {
				cs = charset.Unknown8Bit
			}
		}

		var tstr string
		if required {
			tstr = prm.Name + "*=" + cs + "''" + token.PercentEncode(prm.Value)
		} else {
			tstr = prm.Name + "=" + token.QuoteString(prm.Value)
		}

		if width(f.last())+width(tstr)+1 < maxlen {
			f.appendLast(" " + tstr)
			continue
		}

		if width(tstr)+2 <= maxlen {
			f.newLine(" " + tstr)
			continue
		}

		extra := cs + "''"
		units := splitChars(prm.Value)
		for section := 0; len(units) > 0; section++ {
			num := strconv.Itoa(section)
			chrome := len(prm.Name) + len(num) + 3 + len(extra)
			if maxlen <= chrome+3 {
				maxlen = DefaultMaxLineLength
			}

			maxchars := maxlen - chrome - 2
			n := fitPercent(units, maxchars)

			f.newLine(" " + prm.Name + "*" + num + "*=" + extra + token.PercentEncode(strings.Join(units[:n], "")))
			extra = ""
			units = units[n:]
			if len(units) > 0 {
				f.appendLast(";")
			}
		}
	}
}

// fitPercent returns how many units fit in room characters once percent
// encoded. It is always at least one, so that every section makes progress.
func fitPercent(units []string, room int) int {
	n, size := 0, 0
	for n < len(units) {
		size += len(token.PercentEncode(units[n]))
		if size > room {
			break
		}
		n++
	}

	if n == 0 && len(units) > 0 {
		return 1
	}
	return n
}

// width is the length of s in characters. Bytes that are not valid UTF-8
// count as one character each.
func width(s string) int { return utf8.RuneCountInString(s) }

// splitChars splits s into characters, keeping each invalid byte as a
// character of its own so the original bytes survive rejoining.
func splitChars(s string) []string {
	units := make([]string, 0, len(s))
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		units = append(units, s[:size])
		s = s[size:]
	}
	return units
}

func isWSPByte(c byte) bool { return c == ' ' || c == '\t' }
