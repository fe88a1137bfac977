package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/header/token"
)

var parseCmd = &cobra.Command{
	Use:   "parse [field]",
	Short: "Prints the token tree of a header field",
	RunE:  RunParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// RunParse parses one field and pretty prints its tree, followed by the
// value and any defects found.
func RunParse(cmd *cobra.Command, args []string) error {
	f, err := readField(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name  = %s\n", f.Name())
	if err := token.Pretty(out, f.Tree()); err != nil {
		return err
	}
	fmt.Fprintf(out, "value = %q\n", f.Body())

	for _, d := range f.Defects() {
		fmt.Fprintf(out, "defect: %v\n", d)
	}
	return nil
}
