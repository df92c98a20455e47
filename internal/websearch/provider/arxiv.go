package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

// defaultMaxDocs bounds how many papers are fetched per query when the
// caller does not set a cap.
const defaultMaxDocs = 3

// ArxivProvider implements the arXiv Atom query API
type ArxivProvider struct {
	*BaseProvider
}

// NewArxivProvider creates a new arXiv provider
func NewArxivProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &ArxivProvider{BaseProvider: base}, nil
}

// arxivFeed represents an arXiv Atom API response
type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Search executes a search query using the arXiv Atom API
func (p *ArxivProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.QueryResult, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}

	maxDocs := req.MaxResults
	if maxDocs == 0 {
		maxDocs = p.config.MaxResults
	}
	if maxDocs == 0 {
		maxDocs = defaultMaxDocs
	}

	// Build query parameters
	params := url.Values{}
	params.Set("search_query", fmt.Sprintf("all:%s", req.Query))
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxDocs))
	params.Set("sortBy", "relevance")

	apiURL := fmt.Sprintf("%s/api/query?%s", p.config.APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", p.BuildDefaultHeaders()["User-Agent"])

	// Execute request
	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	// Parse Atom feed
	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "INVALID_RESPONSE",
			Message:  "Failed to decode Atom feed",
			Err:      fmt.Errorf("%w: %v", types.ErrInvalidResponse, err),
		}
	}

	// Convert to standard response. arXiv has no relevance score, so every
	// record defaults to 1.0.
	results := make([]*types.SourceRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		title := collapseWhitespace(entry.Title)
		summary := collapseWhitespace(entry.Summary)

		results = append(results, &types.SourceRecord{
			Title:      title,
			URL:        strings.TrimSpace(entry.ID),
			Content:    summary,
			RawContent: buildPaperText(title, summary, &entry),
			Score:      1.0,
		})
	}

	return &types.QueryResult{
		Query:    req.Query,
		Results:  results,
		Provider: p.GetID(),
		Took:     time.Since(startTime).Milliseconds(),
	}, nil
}

// buildPaperText assembles the full extracted text of one paper from its
// feed entry metadata.
func buildPaperText(title, summary string, entry *arxivEntry) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if len(entry.Authors) > 0 {
		names := make([]string, len(entry.Authors))
		for i, a := range entry.Authors {
			names[i] = strings.TrimSpace(a.Name)
		}
		sb.WriteString("Authors: ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n")
	}

	if entry.Published != "" {
		sb.WriteString("Published: ")
		sb.WriteString(strings.TrimSpace(entry.Published))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(summary)
	return sb.String()
}

// collapseWhitespace folds the newline-wrapped text arXiv returns into a
// single line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
