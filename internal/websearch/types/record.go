package types

type ProviderID string

const (
	ProviderTavily    ProviderID = "tavily"
	ProviderArxiv     ProviderID = "arxiv"
	ProviderFirecrawl ProviderID = "firecrawl"
)

// SourceRecord represents a single normalized search result
type SourceRecord struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"` // deduplication key, must be non-empty
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"` // full extracted text, empty when provider has none
	Score      float64 `json:"score"`                 // provider relevance signal, 1.0 when provider has none
}

// QueryResult represents one provider's response to one query
type QueryResult struct {
	Query   string          `json:"query"`
	Results []*SourceRecord `json:"results"`

	// Passthrough metadata kept for interface parity across providers.
	// Formatting ignores these fields.
	Answer            string   `json:"answer,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	Images            []string `json:"images,omitempty"`

	Provider ProviderID `json:"provider,omitempty"`
	Took     int64      `json:"took,omitempty"` // milliseconds
}
