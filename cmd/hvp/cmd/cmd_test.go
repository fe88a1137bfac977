package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFold(t *testing.T) {
	out, err := run(t, "fold", "--width", "78", "Subject: café")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?utf-8?q?caf=C3=A9?=\n", out)
}

func TestParse(t *testing.T) {
	out, err := run(t, "parse", "To: a@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "name  = To\n")
	assert.Contains(t, out, "address-list")
	assert.Contains(t, out, `value = "a@example.com"`)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mbox")
	const box = "From a@example.com Mon Jan  2 15:04:05 2006\n" +
		"Subject: hi\n" +
		"Date: garbage\n" +
		"\n" +
		"body\n" +
		"\n" +
		"From b@example.com Mon Jan  2 15:04:05 2006\n" +
		"Subject: again\n" +
		"\n" +
		"more body\n"
	require.NoError(t, os.WriteFile(path, []byte(box), 0o600))

	out, err := run(t, "scan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1: Date: invalid date")
	assert.Contains(t, out, "2 messages")
}
