// Package keyword provides the lazily built full-text index over the document corpus.
package keyword

import (
	"strings"

	"github.com/hyperjump/docsearch/internal/models"
)

// Searcher is the query surface consumed by the dropdown controller and the HTTP API.
type Searcher interface {
	// EnsureBuilt builds the index on first call and is a no-op afterwards.
	EnsureBuilt() error
	// Query returns ranked matches for term. A blank term yields no results.
	Query(term string) ([]models.SearchResult, error)
}

// TokenTransform rewrites one whitespace-delimited query token before search.
type TokenTransform func(token string) string

// IdentityToken leaves a token unchanged. It is the default transform.
func IdentityToken(token string) string {
	return token
}

// WildcardToken rewrites a token as content_raw:*token* so it matches as a
// substring of any unstemmed content term. The token is lowercased to match
// the analyzed terms. Empty tokens are left alone.
func WildcardToken(token string) string {
	if token == "" {
		return token
	}
	return rawContentField + ":*" + strings.ToLower(token) + "*"
}

// BuildTerm splits input on single spaces, applies transform to every token
// and joins the tokens back with single spaces.
func BuildTerm(input string, transform TokenTransform) string {
	if transform == nil {
		transform = IdentityToken
	}
	tokens := strings.Split(input, " ")
	for i, tok := range tokens {
		tokens[i] = transform(tok)
	}
	return strings.Join(tokens, " ")
}
