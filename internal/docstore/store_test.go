package docstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/docsearch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_embeddedCorpus(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	doc := s.Documents()[0]
	assert.Equal(t, "Intro", doc.Title)
	assert.Equal(t, "/sqlite-client/docs/", doc.URL)
	assert.True(t, strings.HasPrefix(doc.Content, "Guide Guide Installation"))
	assert.Contains(t, doc.Content, "executeQuery[Warehouse]")

	assert.Equal(t, models.DocMap{"Intro": "/sqlite-client/docs/"}, s.DocMap())
}

func TestParse(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		s, err := Parse(strings.NewReader(`
documents:
  - title: B
    url: /b/
    content: second
  - title: A
    url: /a/
    content: first
`))
		require.NoError(t, err)
		docs := s.Documents()
		require.Len(t, docs, 2)
		assert.Equal(t, "B", docs[0].Title)
		assert.Equal(t, "A", docs[1].Title)
	})

	t.Run("empty input is an empty corpus", func(t *testing.T) {
		s, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.DocMap())
	})

	t.Run("rejects duplicate titles", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`
documents:
  - {title: A, url: /a/, content: x}
  - {title: A, url: /b/, content: y}
`))
		assert.ErrorIs(t, err, ErrDuplicateTitle)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`
documents:
  - {url: /a/, content: x}
`))
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := Parse(strings.NewReader("documents: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  - {title: T, url: /t/, content: hello}\n"), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDocuments_returnsCopy(t *testing.T) {
	s, err := FromDocuments([]models.Document{{Title: "A", URL: "/a/"}})
	require.NoError(t, err)
	docs := s.Documents()
	docs[0].URL = "/changed/"
	assert.Equal(t, "/a/", s.Documents()[0].URL)
}
