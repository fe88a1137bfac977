package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/header/field"
)

var (
	verbose bool
	logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "hvp",
	Short: "Tools for parsing and folding email header values",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

// Execute runs the hvp command line.
func Execute() error {
	return rootCmd.Execute()
}

// readField returns a single header field, taken from the arguments when any
// are given and read from stdin otherwise.
func readField(cmd *cobra.Command, args []string) (*field.Field, error) {
	var raw []byte
	if len(args) > 0 {
		raw = []byte(strings.Join(args, " "))
	} else {
		var err error
		raw, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("unable to read field: %w", err)
		}
	}

	raw = bytes.TrimRight(raw, "\r\n")
	if len(raw) == 0 {
		return nil, fmt.Errorf("no header field given")
	}

	lb := field.GuessBreak(raw)
	logger.Debug("read field", "bytes", len(raw), "break", fmt.Sprintf("%q", lb.String()))
	return field.Parse(raw, lb), nil
}
