package types

// SearchRequest represents a single search query against one provider.
// Adapters reject an empty Query with ErrEmptyQuery before dispatch.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}
