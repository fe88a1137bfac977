package charset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/charset"
)

// Εν αρχη ητο ο Λογος.
var unicodeText = "Εν αρχη ητο ο Λογος."

func TestDefaultCharsetDecoder(t *testing.T) {
	t.Parallel()

	_, err := charset.DefaultCharsetDecoder("greek", []byte{0xc5, 0xed})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported byte encoding")

	dec, err := charset.DefaultCharsetDecoder("utf-8", []byte(unicodeText))
	assert.NoError(t, err)
	assert.Equal(t, unicodeText, dec)

	dec, err = charset.DefaultCharsetDecoder("", []byte("caf\xe9"))
	assert.NoError(t, err)
	assert.Equal(t, "caf�", dec)

	dec, err = charset.DefaultCharsetDecoder("ISO-8859-1", []byte("caf\xe9"))
	assert.NoError(t, err)
	assert.Equal(t, "café", dec)
}

func TestDefaultCharsetEncoder(t *testing.T) {
	t.Parallel()

	_, err := charset.DefaultCharsetEncoder("greek", unicodeText)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported byte encoding")

	enc, err := charset.DefaultCharsetEncoder("utf-8", unicodeText)
	assert.NoError(t, err)
	assert.Equal(t, []byte(unicodeText), enc)

	_, err = charset.DefaultCharsetEncoder("us-ascii", unicodeText)
	assert.Error(t, err)

	enc, err = charset.DefaultCharsetEncoder("latin1", "café")
	assert.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), enc)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	s, bad, err := charset.Decode("utf-8", []byte("Jos\xc3\xa9"))
	require.NoError(t, err)
	assert.False(t, bad)
	assert.Equal(t, "José", s)

	s, bad, err = charset.Decode("utf-8", []byte("Jos\xe9"))
	require.NoError(t, err)
	assert.True(t, bad)
	assert.Equal(t, "Jos\xe9", s)

	s, bad, err = charset.Decode("us-ascii", []byte("plain"))
	require.NoError(t, err)
	assert.False(t, bad)
	assert.Equal(t, "plain", s)

	s, bad, err = charset.Decode("x-no-such-charset", []byte("abc"))
	assert.Error(t, err)
	assert.False(t, bad)
	assert.Equal(t, "abc", s)

	s, bad, err = charset.Decode(charset.Unknown8Bit, []byte("a\xffb"))
	assert.NoError(t, err)
	assert.True(t, bad)
	assert.Equal(t, "a\xffb", s)
}

func TestCanEncode(t *testing.T) {
	t.Parallel()

	assert.True(t, charset.CanEncode("us-ascii", "hello"))
	assert.False(t, charset.CanEncode("us-ascii", "héllo"))
	assert.True(t, charset.CanEncode("utf-8", "héllo"))
	assert.False(t, charset.CanEncode("utf-8", "h\xffllo"))
	assert.True(t, charset.CanEncode(charset.Unknown8Bit, "h\xffllo"))
	assert.True(t, charset.CanEncode("iso-8859-1", "héllo"))
	assert.False(t, charset.CanEncode("x-no-such-charset", "hello"))
}
