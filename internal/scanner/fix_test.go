package scanner_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-headervalue/internal/scanner"
)

// skipComments drops lines starting with # without returning a token.
func skipComments(data []byte, atEOF bool) (int, []byte, error) {
	ix := bytes.IndexByte(data, '\n')
	if ix < 0 {
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	if data[0] == '#' {
		return ix + 1, nil, nil
	}
	return ix + 1, data[:ix], nil
}

func TestExitByAdvance(t *testing.T) {
	t.Parallel()

	sc := bufio.NewScanner(strings.NewReader("# one\na\n# two\n# three\nb\n# four\n"))
	sc.Split(scanner.ExitByAdvance(skipComments))

	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	assert.NoError(t, sc.Err())
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestExitByAdvance_NoProgress(t *testing.T) {
	t.Parallel()

	never := func(data []byte, atEOF bool) (int, []byte, error) {
		return 0, nil, nil
	}

	sc := bufio.NewScanner(strings.NewReader("stuck"))
	sc.Split(scanner.ExitByAdvance(never))
	assert.False(t, sc.Scan())
	assert.ErrorIs(t, sc.Err(), scanner.ErrNoProgress)
}
