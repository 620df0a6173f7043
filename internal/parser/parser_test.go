package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/domain"
)

func TestParseText(t *testing.T) {
	got, err := New().Parse("notes.TXT", strings.NewReader("\xef\xbb\xbfhello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := New().Parse("bad.txt", strings.NewReader("ok \xff\xfe"))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestParseUnsupported(t *testing.T) {
	for _, name := range []string{"report.docx", "README", "archive.txt.gz"} {
		t.Run(name, func(t *testing.T) {
			_, err := New().Parse(name, strings.NewReader("data"))
			assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
		})
	}
}

func TestParseMalformedPDF(t *testing.T) {
	_, err := New().Parse("broken.pdf", strings.NewReader("this is not a pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.pdf"))
	assert.True(t, Supported("dir/b.Txt"))
	assert.False(t, Supported("c.md"))
}
