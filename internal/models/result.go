package models

// SearchResult is a single ranked match. Name is the matched document title.
type SearchResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query     string         `json:"query"`
	Results   []SearchResult `json:"results"`
	Total     int            `json:"total"`
	QueryTime int64          `json:"query_time_ms"`
}
