package param_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-headervalue/header/defect"
	"github.com/zostay/go-headervalue/header/param"
)

func TestParse(t *testing.T) {
	t.Parallel()

	_, err := param.Parse("test:plain")
	assert.ErrorIs(t, err, param.ErrInvalidValue)

	_, err = param.Parse("")
	assert.ErrorIs(t, err, param.ErrInvalidValue)

	mt, err := param.Parse("text")
	assert.NoError(t, err)

	assert.Equal(t, "text", mt.MediaType())
	assert.Equal(t, "", mt.Type())
	assert.Equal(t, "", mt.Subtype())
	assert.Equal(t, "text", mt.Value())
	assert.Equal(t, map[string]string{}, mt.Parameters())

	mt, err = param.Parse("Image/JPEG")
	assert.NoError(t, err)

	assert.Equal(t, "image/jpeg", mt.MediaType())
	assert.Equal(t, "image", mt.Type())
	assert.Equal(t, "jpeg", mt.Subtype())
	assert.Equal(t, map[string]string{}, mt.Parameters())

	mt, err = param.Parse("application/json; charset=UTF-8; foo=bar")
	assert.NoError(t, err)

	assert.Equal(t, "application/json", mt.MediaType())
	assert.Equal(t, "application", mt.Type())
	assert.Equal(t, "json", mt.Subtype())
	assert.Equal(t, map[string]string{
		"charset": "UTF-8",
		"foo":     "bar",
	}, mt.Parameters())
	assert.Empty(t, mt.Defects())
}

func TestParseDisposition(t *testing.T) {
	t.Parallel()

	cd, err := param.Parse(`attachment; filename*=utf-8''%E2%82%AC%20rates.txt`)
	require.NoError(t, err)
	assert.Equal(t, "attachment", cd.Disposition())
	assert.Equal(t, "€ rates.txt", cd.Filename())

	cd, err = param.Parse(`inline; a=1; a=2`)
	require.NoError(t, err)
	assert.Equal(t, "1", cd.Parameter("A"))
	assert.True(t, defect.Has(cd.Defects(), defect.Invalid))
}

func TestNew(t *testing.T) {
	t.Parallel()

	mt := param.New("text/json", map[string]string{
		"charset": "trash",
	})

	assert.Equal(t, "text/json", mt.MediaType())
	assert.Equal(t, "text", mt.Type())
	assert.Equal(t, "json", mt.Subtype())
	assert.Equal(t, map[string]string{"charset": "trash"}, mt.Parameters())
}

func TestModify(t *testing.T) {
	t.Parallel()

	mt := param.New("text/json")
	assert.Equal(t, "text/json", mt.String())

	mt = param.Modify(mt,
		param.Set(param.Boundary, "abc123"),
		param.Change("application/json"),
	)
	assert.Equal(t, "application/json; boundary=abc123", mt.String())

	mt = param.Modify(mt,
		param.Change("text/x-json"),
		param.Set(param.Charset, "utf-8"),
		param.Delete(param.Boundary),
	)
	assert.Equal(t, "text/x-json; charset=utf-8", mt.String())
	assert.Equal(t, []byte("text/x-json; charset=utf-8"), mt.Bytes())
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	mt := param.New("attachment", map[string]string{
		"filename": "my report.pdf",
		"title":    "naïve",
	})
	assert.Equal(t, `attachment; filename="my report.pdf"; title*=utf-8''na%C3%AFve`, mt.String())

	back, err := param.Parse(mt.String())
	require.NoError(t, err)
	assert.Equal(t, mt.Parameters(), back.Parameters())
	assert.Empty(t, back.Defects())
}

func TestValue_Parameter(t *testing.T) {
	t.Parallel()

	mt := param.New("text/plain", map[string]string{
		"boundary": "abc123",
		"charset":  "latin1",
		"blah":     "BLOOP",
	})

	assert.Equal(t, "abc123", mt.Parameter(param.Boundary))
	assert.Equal(t, "abc123", mt.Boundary())
	assert.Equal(t, "latin1", mt.Charset())
	assert.Equal(t, "latin1", mt.Parameter(param.Charset))
	assert.Equal(t, "BLOOP", mt.Parameter("blah"))
	assert.Equal(t, "", mt.Parameter(param.Filename))
	assert.Equal(t, "", mt.Filename())
}

func TestValue_Fold(t *testing.T) {
	t.Parallel()

	name := strings.Repeat("é", 60) + ".txt"
	cd := param.New("attachment", map[string]string{param.Filename: name})

	out, err := cd.Fold("Content-Disposition", nil)
	require.NoError(t, err)

	ls := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	assert.Greater(t, len(ls), 1)
	for _, l := range ls {
		assert.LessOrEqual(t, len([]rune(l)), 78, "line %q", l)
	}

	unfolded := strings.ReplaceAll(strings.TrimSuffix(out, "\r\n"), "\r\n", "")
	back, err := param.Parse(strings.TrimPrefix(unfolded, "Content-Disposition: "))
	require.NoError(t, err)
	assert.Equal(t, name, back.Filename())
}
