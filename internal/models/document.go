// Package models defines core data structures for documents and search results.
package models

// Document is one searchable page of the documentation site.
// Title is unique across a corpus and is used as the document key.
type Document struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Content string `json:"content" yaml:"content"`
}

// DocMap maps a document title to its URL.
type DocMap map[string]string

// NewDocMap derives the title to URL table from docs.
func NewDocMap(docs []Document) DocMap {
	m := make(DocMap, len(docs))
	for _, doc := range docs {
		m[doc.Title] = doc.URL
	}
	return m
}

// Lookup returns the URL for title and whether the title is known.
func (m DocMap) Lookup(title string) (string, bool) {
	url, ok := m[title]
	return url, ok
}
