package parser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/parser"
	"github.com/zostay/go-headervalue/header/token"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.FixedZone("", -7*60*60))

	got, err := parser.ParseTime("Mon, 02 Jan 2006 15:04:05 -0700")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parser.ParseTime("2006-01-02T15:04:05-07:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = parser.ParseTime("the day after tomorrow")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be parsed")
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	const in = " Mon, 02 Jan 2006 15:04:05 -0700"
	d := parser.ParseDate(in)
	assert.Equal(t, token.Date, d.Kind())
	assert.Equal(t, in, d.String())
	assert.Empty(t, d.AllDefects())
	assert.Equal(t, 2006, d.Time.Year())

	d = parser.ParseDate("the day after tomorrow")
	assert.True(t, d.Time.IsZero())
	assert.True(t, defect.Has(d.Defects(), defect.InvalidDate))
	assert.Equal(t, "the day after tomorrow", d.String())

	d = parser.ParseDate("  ")
	assert.True(t, defect.Has(d.Defects(), defect.MissingRequiredValue))
}

func TestParseUnstructured(t *testing.T) {
	t.Parallel()

	u := parser.ParseUnstructured("=?utf-8?q?Andrew=2C_you=27ve_got_mail?=")
	assert.Equal(t, token.Unstructured, u.Kind())
	assert.Equal(t, "Andrew, you've got mail", u.Value())
}
