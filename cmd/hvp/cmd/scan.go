package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/header/field"
)

var scanCmd = &cobra.Command{
	Use:   "scan mbox",
	Short: "Reports header defects for every message in an mbox file",
	Args:  cobra.ExactArgs(1),
	RunE:  RunScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// RunScan walks every message of an mbox file and prints one line per
// defective header field.
func RunScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	out := cmd.OutOrStdout()
	reader := mbox.NewReader(f)
	messages, defective := 0, 0
	for {
		mr, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("unable to read message %d of %s: %w", messages+1, path, err)
		}
		messages++

		// mbox files use LF line breaks
		br := bufio.NewReader(mr)
		s := field.NewScanner(br, field.LF)
		for s.Scan() {
			fld := s.Field()
			for _, d := range fld.Defects() {
				defective++
				fmt.Fprintf(out, "%d: %s: %v\n", messages, fld.Name(), d)
			}
		}

		var badStart *field.BadStartError
		if err := s.Err(); errors.As(err, &badStart) {
			fmt.Fprintf(out, "%d: junk before header: %q\n", messages, badStart.BadStart)
		} else if err != nil {
			logger.Warn("unable to scan header", "message", messages, "err", err)
		}

		// the body must be drained before the next message
		if _, err := io.Copy(io.Discard, br); err != nil {
			return err
		}
	}

	logger.Info("scan complete", "path", path, "messages", messages, "defects", defective)
	fmt.Fprintf(out, "%d messages, %d defects\n", messages, defective)
	return nil
}
