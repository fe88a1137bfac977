package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/header"
	"github.com/zostay/go-headervalue/header/field"
	"github.com/zostay/go-headervalue/header/fold"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip message",
	Short: "Shows the diff of a header round-trip through the parser and folder",
	Args:  cobra.ExactArgs(1),
	RunE:  RunRoundtrip,
}

func init() {
	rootCmd.AddCommand(roundtripCmd)
}

// RunRoundtrip reads the header of a message file and checks two things for
// every field: the tree reproduces the source exactly, and folding then
// reparsing keeps the same value.
func RunRoundtrip(cmd *cobra.Command, args []string) error {
	path := args[0]
	msg, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	h, err := header.Read(bytes.NewReader(msg), field.GuessBreak(msg))
	if err != nil {
		logger.Warn("problem reading header", "path", path, "err", err)
		if h == nil {
			return err
		}
	}

	dmp := diffmatchpatch.New()
	out := cmd.OutOrStdout()
	failures := 0
	for _, f := range h.ListFields() {
		src := string(field.Unfold([]byte(f.Raw.Body())))
		src = strings.TrimLeft(src, " \t")
		if got := f.Tree().String(); got != src {
			failures++
			fmt.Fprintf(out, "%s: tree does not reproduce source\n", f.Name())
			fmt.Fprintln(out, dmp.DiffPrettyText(dmp.DiffMain(src, got, false)))
		}

		folded, err := f.Fold(fold.DefaultPolicy)
		if err != nil {
			failures++
			fmt.Fprintf(out, "%s: unable to fold: %v\n", f.Name(), err)
			continue
		}

		reparsed := field.Parse([]byte(folded), field.CRLF)
		want := f.Tree().Value()
		if got := reparsed.Tree().Value(); !sameValue(want, got) {
			failures++
			fmt.Fprintf(out, "%s: folded value differs\n", f.Name())
			fmt.Fprintln(out, dmp.DiffPrettyText(dmp.DiffMain(want, got, false)))
		}
	}

	logger.Info("round trip complete", "path", path, "fields", h.Len(), "failures", failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d fields failed to round-trip", failures, h.Len())
	}
	fmt.Fprintf(out, "%s: %d fields ok\n", path, h.Len())
	return nil
}

// sameValue compares values ignoring the whitespace folding adds or removes.
func sameValue(a, b string) bool {
	return strings.Join(strings.Fields(a), " ") == strings.Join(strings.Fields(b), " ")
}
