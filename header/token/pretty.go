package token

import (
	"fmt"
	"io"
	"strings"
)

// Pretty writes an indented dump of the tree to w. Each line names the Go
// type and kind of a token, terminals show their quoted source text, and
// defects are appended to the token that carries them.
func Pretty(w io.Writer, t Token) error {
	return pretty(w, t, "")
}

// PrettyString returns the dump written by Pretty.
func PrettyString(t Token) string {
	var sb strings.Builder
	_ = Pretty(&sb, t)
	return sb.String()
}

func defectSuffix(t Token) string {
	ds := t.Defects()
	if len(ds) == 0 {
		return ""
	}
	ms := make([]string, len(ds))
	for i, d := range ds {
		ms[i] = d.Error()
	}
	return " Defects: [" + strings.Join(ms, "; ") + "]"
}

func pretty(w io.Writer, t Token, indent string) error {
	switch v := t.(type) {
	case *Terminal:
		_, err := fmt.Fprintf(w, "%sTerminal/%s(%q)%s\n", indent, v.kind, v.text, defectSuffix(v))
		return err
	case *List:
		if _, err := fmt.Fprintf(w, "%sList/%s(\n", indent, v.kind); err != nil {
			return err
		}
		for _, c := range v.children {
			if err := pretty(w, c, indent+"    "); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s)%s\n", indent, defectSuffix(v))
		return err
	}
	_, err := fmt.Fprintf(w, "%s!! invalid element in token list: %#v\n", indent, t)
	return err
}
