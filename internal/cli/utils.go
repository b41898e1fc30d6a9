// Package cli provides output helpers for the docsearch CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/session"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text or json", s)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "Found %d results for %q in %dms\n", response.Total, response.Query, response.QueryTime)
	for i, r := range response.Results {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, r.Name, r.URL)
	}
	return nil
}

// WriteSnapshot writes a session snapshot after the given step to w.
func WriteSnapshot(w io.Writer, step string, snap session.Snapshot, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			Step string `json:"step"`
			session.Snapshot
		}{Step: step, Snapshot: snap})
	}
	fmt.Fprintf(w, "> %s\n", step)
	fmt.Fprintf(w, "  state: %s  focus: %s  query: %q\n", snap.State, snap.Focused, snap.Query)
	for i, r := range snap.Results {
		fmt.Fprintf(w, "  [result-%d] %s -> %s\n", i, r.Name, r.URL)
	}
	return nil
}

// WriteDocuments lists documents with a content preview of the first previewWords words.
func WriteDocuments(w io.Writer, docs []models.Document, previewWords int) {
	for _, doc := range docs {
		fmt.Fprintf(w, "%s  %s\n    %s\n", doc.Title, doc.URL, TruncateWords(doc.Content, previewWords))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
