package keyword

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/hyperjump/docsearch/internal/docstore"
	"github.com/hyperjump/docsearch/internal/models"
	"go.uber.org/zap"
)

// Documents are keyed by title. contentField holds the stemmed text searched
// by plain queries; rawContentField holds the same text lowercased but
// unstemmed, for wildcard patterns, which bleve does not analyze.
const (
	contentField    = "content"
	rawContentField = "content_raw"
)

// Index is an in-memory Bleve index over a document store, built on first use.
// The index and its DocMap are built together and never rebuilt.
type Index struct {
	store      *docstore.Store
	logger     *zap.Logger
	transform  TokenTransform
	maxResults int

	mu     sync.Mutex
	built  bool
	index  bleve.Index
	docMap models.DocMap
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger used for build and query diagnostics.
func WithLogger(logger *zap.Logger) IndexOption {
	return func(i *Index) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithTokenTransform sets the per-token rewrite applied before querying.
func WithTokenTransform(t TokenTransform) IndexOption {
	return func(i *Index) {
		if t != nil {
			i.transform = t
		}
	}
}

// WithMaxResults caps the number of results per query. Zero or negative means
// every matching document.
func WithMaxResults(n int) IndexOption {
	return func(i *Index) {
		i.maxResults = n
	}
}

// NewIndex returns an unbuilt index over store.
func NewIndex(store *docstore.Store, opts ...IndexOption) *Index {
	i := &Index{
		store:     store,
		logger:    zap.NewNop(),
		transform: IdentityToken,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// EnsureBuilt builds the Bleve index and the DocMap on the first call.
// Concurrent callers wait for the first build. The built flag is claimed
// before indexing starts and released again if the build fails.
func (i *Index) EnsureBuilt() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.built {
		return nil
	}
	i.built = true

	i.logger.Debug("Building search index...", zap.Int("documents", i.store.Len()))
	index, err := buildBleveIndex(i.store.Documents())
	if err != nil {
		i.built = false
		return err
	}
	i.index = index
	i.docMap = i.store.DocMap()
	i.logger.Debug("Search index built.")
	return nil
}

func buildBleveIndex(docs []models.Document) (bleve.Index, error) {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()
	contentMapping := bleve.NewTextFieldMapping()
	contentMapping.Analyzer = en.AnalyzerName
	contentMapping.Store = false
	docMapping.AddFieldMappingsAt(contentField, contentMapping)

	rawMapping := bleve.NewTextFieldMapping()
	rawMapping.Analyzer = standard.Name
	rawMapping.Store = false
	rawMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(rawContentField, rawMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	batch := index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.Title, map[string]interface{}{
			contentField:    doc.Content,
			rawContentField: doc.Content,
		}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index %q: %w", doc.Title, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to commit Bleve batch: %w", err)
	}
	return index, nil
}

// Query runs term against the index and maps every hit to its URL.
// Results keep Bleve's ranking (score descending, then title).
// Input that the query-string parser rejects yields no results rather than an error.
func (i *Index) Query(term string) ([]models.SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return []models.SearchResult{}, nil
	}
	if err := i.EnsureBuilt(); err != nil {
		return nil, err
	}

	i.mu.Lock()
	index, docMap := i.index, i.docMap
	i.mu.Unlock()
	if index == nil {
		return []models.SearchResult{}, nil
	}

	searchTerm := BuildTerm(term, i.transform)
	q := bleve.NewQueryStringQuery(searchTerm)
	if _, err := q.Parse(); err != nil {
		i.logger.Debug("unparseable search term", zap.String("term", searchTerm), zap.Error(err))
		return []models.SearchResult{}, nil
	}

	size := i.maxResults
	if size <= 0 {
		size = i.store.Len()
	}
	if size == 0 {
		return []models.SearchResult{}, nil
	}
	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]models.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		url, ok := docMap.Lookup(hit.ID)
		if !ok {
			i.logger.Warn("search hit missing from doc map", zap.String("ref", hit.ID))
			continue
		}
		out = append(out, models.SearchResult{Name: hit.ID, URL: url})
	}
	return out, nil
}

// Built reports whether the index has been built.
func (i *Index) Built() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.built && i.index != nil
}

// DocMap returns the title to URL lookup, or nil before the index is built.
func (i *Index) DocMap() models.DocMap {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.docMap
}

// DocCount returns the number of indexed documents; zero before the build.
func (i *Index) DocCount() (uint64, error) {
	i.mu.Lock()
	index := i.index
	i.mu.Unlock()
	if index == nil {
		return 0, nil
	}
	return index.DocCount()
}

// Close releases the Bleve index. The Index must not be queried afterwards.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}
