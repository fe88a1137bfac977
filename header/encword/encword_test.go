package encword_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/encword"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	d, err := encword.Decode("=?utf-8?q?Jos=C3=A9?=")
	require.NoError(t, err)
	assert.Equal(t, "José", d.Text)
	assert.Equal(t, "utf-8", d.Charset)
	assert.Equal(t, "", d.Lang)
	assert.Empty(t, d.Defects)

	d, err = encword.Decode("=?utf-8*en?b?4pqA4pqB4pqC4pqD4pqE4pqF?=")
	require.NoError(t, err)
	assert.Equal(t, "⚀⚁⚂⚃⚄⚅", d.Text)
	assert.Equal(t, "en", d.Lang)
	assert.Empty(t, d.Defects)

	d, err = encword.Decode("=?us-ascii?Q?hello_world?=")
	require.NoError(t, err)
	assert.Equal(t, "hello world", d.Text)
}

func TestDecodeFormat(t *testing.T) {
	t.Parallel()

	_, err := encword.Decode("=?utf-8?x?abc?=")
	assert.True(t, errors.Is(err, encword.ErrFormat))

	_, err = encword.Decode("=?utf-8?q?=")
	assert.True(t, errors.Is(err, encword.ErrFormat))

	_, err = encword.Decode("=?utf-8?q?a?b?=")
	assert.True(t, errors.Is(err, encword.ErrFormat))
}

func TestDecodeDefects(t *testing.T) {
	t.Parallel()

	d, err := encword.Decode("=?x-unknown?q?abc?=")
	require.NoError(t, err)
	assert.Equal(t, "abc", d.Text)
	require.Len(t, d.Defects, 1)
	assert.True(t, errors.Is(d.Defects[0], defect.ErrCharset))

	d, err = encword.Decode("=?unknown-8bit?q?a=FFb?=")
	require.NoError(t, err)
	assert.Equal(t, "a\xffb", d.Text)
	assert.Empty(t, d.Defects)

	d, err = encword.Decode("=?utf-8?q?a=FFb?=")
	require.NoError(t, err)
	assert.Equal(t, "a\xffb", d.Text)
	require.Len(t, d.Defects, 1)
	assert.True(t, errors.Is(d.Defects[0], defect.ErrUndecodableBytes))
}

func TestDecodeB(t *testing.T) {
	t.Parallel()

	b, ds := encword.DecodeB("YWJj")
	assert.Equal(t, []byte("abc"), b)
	assert.Empty(t, ds)

	b, ds = encword.DecodeB("YQ")
	assert.Equal(t, []byte("a"), b)
	require.Len(t, ds, 1)
	assert.True(t, errors.Is(ds[0], defect.ErrInvalidBase64Padding))

	b, ds = encword.DecodeB("YW!Jj")
	assert.Equal(t, []byte("abc"), b)
	require.Len(t, ds, 1)
	assert.True(t, errors.Is(ds[0], defect.ErrInvalidBase64Characters))

	b, ds = encword.DecodeB("Y")
	assert.Equal(t, []byte("Y"), b)
	require.Len(t, ds, 1)
	assert.True(t, errors.Is(ds[0], defect.ErrInvalidBase64Length))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	s, err := encword.Encode("José", "utf-8", encword.Auto, "")
	require.NoError(t, err)
	assert.Equal(t, "=?utf-8?q?Jos=C3=A9?=", s)

	s, err = encword.Encode("⚀⚁⚂⚃⚄⚅", "utf-8", encword.Auto, "")
	require.NoError(t, err)
	assert.Equal(t, "=?utf-8?b?4pqA4pqB4pqC4pqD4pqE4pqF?=", s)

	s, err = encword.Encode("a b", "utf-8", encword.Q, "en")
	require.NoError(t, err)
	assert.Equal(t, "=?utf-8*en?q?a_b?=", s)

	_, err = encword.Encode("abc", "utf-8", encword.Encoding('x'), "")
	assert.True(t, errors.Is(err, encword.ErrEncoding))
}

func TestEncodedLen(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"José", "⚀⚁⚂⚃⚄⚅", "plain text", ""} {
		s, err := encword.Encode(text, "utf-8", encword.Auto, "")
		require.NoError(t, err)
		assert.Equal(t, len(s), encword.EncodedLen(text, "utf-8", encword.Auto), text)
	}

	assert.Equal(t, 4, encword.BLen([]byte("abc")))
	assert.Equal(t, 8, encword.BLen([]byte("abcd")))
	assert.Equal(t, 3, encword.QLen([]byte{0xff}))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"José", "Ελληνικά", "with = and ? marks", "under_score"} {
		for _, enc := range []encword.Encoding{encword.Q, encword.B} {
			s, err := encword.Encode(text, "utf-8", enc, "")
			require.NoError(t, err)
			d, err := encword.Decode(s)
			require.NoError(t, err)
			assert.Equal(t, text, d.Text)
			assert.Empty(t, d.Defects)
		}
	}
}
