package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/header/fold"
)

var (
	foldWidth int
	foldUTF8  bool
)

var foldCmd = &cobra.Command{
	Use:   "fold [field]",
	Short: "Folds a header field to the given width",
	RunE:  RunFold,
}

func init() {
	foldCmd.Flags().IntVarP(&foldWidth, "width", "w", fold.DefaultMaxLineLength, "maximum line length, 0 for unbounded")
	foldCmd.Flags().BoolVar(&foldUTF8, "utf8", false, "leave non-ASCII text unencoded")
	rootCmd.AddCommand(foldCmd)
}

// RunFold parses one field and writes it back out folded.
func RunFold(cmd *cobra.Command, args []string) error {
	f, err := readField(cmd, args)
	if err != nil {
		return err
	}

	p, err := fold.NewPolicy(
		fold.WithMaxLineLength(foldWidth),
		fold.WithLineSeparator("\n"),
		fold.WithUTF8(foldUTF8),
	)
	if err != nil {
		return err
	}

	s, err := f.Fold(p)
	if err != nil {
		return err
	}

	logger.Debug("folded field", "name", f.Name(), "width", foldWidth)
	fmt.Fprint(cmd.OutOrStdout(), s)
	return nil
}
