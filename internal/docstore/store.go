// Package docstore holds the fixed, ordered set of searchable documents.
package docstore

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/docsearch/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed documents.yaml
var embeddedCorpus []byte

var (
	// ErrDuplicateTitle is returned when two documents share a title.
	ErrDuplicateTitle = errors.New("duplicate document title")
	// ErrEmptyTitle is returned when a document has no title.
	ErrEmptyTitle = errors.New("document title is empty")
)

// corpusFile is the on-disk (and embedded) corpus layout.
type corpusFile struct {
	Documents []models.Document `yaml:"documents"`
}

// Store is an immutable, ordered list of documents fixed at startup.
type Store struct {
	docs []models.Document
}

// New returns the store built from the corpus embedded in the binary.
func New() (*Store, error) {
	return Parse(bytes.NewReader(embeddedCorpus))
}

// Load reads a corpus YAML file at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a corpus from r and validates that titles are present and unique.
// An empty corpus is valid.
func Parse(r io.Reader) (*Store, error) {
	var cf corpusFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	return FromDocuments(cf.Documents)
}

// FromDocuments builds a store from docs, preserving their order.
func FromDocuments(docs []models.Document) (*Store, error) {
	seen := make(map[string]struct{}, len(docs))
	for i, doc := range docs {
		if doc.Title == "" {
			return nil, fmt.Errorf("document %d: %w", i, ErrEmptyTitle)
		}
		if _, ok := seen[doc.Title]; ok {
			return nil, fmt.Errorf("document %d %q: %w", i, doc.Title, ErrDuplicateTitle)
		}
		seen[doc.Title] = struct{}{}
	}
	return &Store{docs: append([]models.Document(nil), docs...)}, nil
}

// Documents returns a copy of the documents in corpus order.
func (s *Store) Documents() []models.Document {
	return append([]models.Document(nil), s.docs...)
}

// Len returns the number of documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// DocMap derives the title to URL lookup for the corpus.
func (s *Store) DocMap() models.DocMap {
	return models.NewDocMap(s.docs)
}
