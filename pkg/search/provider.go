package search

import "context"

// Result is one ranked web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider returns at most maxResults hits for query, best first. A missing
// credential yields an empty list and no error.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
