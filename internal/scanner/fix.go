// Package scanner holds helpers for bufio.Scanner.
package scanner

import (
	"bufio"
	"errors"
)

// ErrNoProgress is returned by a wrapped split function that asks for more
// data after the input is exhausted.
var ErrNoProgress = errors.New("split func made no progress at EOF")

// ExitByAdvance wraps a bufio.SplitFunc so that it may skip input without
// stopping the scan. A plain bufio.Scanner stops as soon as the split
// function returns no token at EOF, even when it advanced past data it
// merely discarded. The wrapped function instead keeps calling split until
// it returns a token, an error, or has consumed all of the data.
func ExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		total := 0
		for {
			advance, token, err := split(data, atEOF)

			switch {
			case err != nil || token != nil:
				return total + advance, token, err
			case advance == 0:
				if atEOF && len(data) > 0 {
					return total, nil, ErrNoProgress
				}
				return total, nil, nil
			case len(data)-advance <= 0:
				return total + advance, nil, nil
			}

			data = data[advance:]
			total += advance
		}
	}
}
