package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

// defaultCrawlCandidates caps how many candidate pages are searched and
// extracted per query. Each candidate costs one extraction call, so the
// adapter's latency grows with this number.
const defaultCrawlCandidates = 2

// extractPrompt steers the backend's structured extraction. The backend
// returns no ready-made summaries, so the summary has to be requested
// explicitly through the schema.
const extractPrompt = `Extract the full informative content from this page. This includes the main text and any subsections.
Do not including things like footnotes, references, contact information, or other non-informative content.
Output all the informative content in a single string in markdown format.
Also, provide a one paragraph summary of the content.`

// FirecrawlProvider implements the Firecrawl search and extract APIs
type FirecrawlProvider struct {
	*BaseProvider
}

// NewFirecrawlProvider creates a new Firecrawl provider
func NewFirecrawlProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &FirecrawlProvider{BaseProvider: base}, nil
}

// firecrawlSearchRequest represents a Firecrawl search request
type firecrawlSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// firecrawlSearchResponse represents a Firecrawl search response
type firecrawlSearchResponse struct {
	Data []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"data"`
}

// firecrawlExtractRequest represents a Firecrawl extract request
type firecrawlExtractRequest struct {
	URLs              []string               `json:"urls"`
	Prompt            string                 `json:"prompt"`
	Schema            map[string]interface{} `json:"schema"`
	IgnoreSitemap     bool                   `json:"ignoreSitemap"`
	IncludeSubdomains bool                   `json:"includeSubdomains"`
}

// Search runs the two-phase crawl-extract flow: one search call to find
// candidate URLs, then one extraction call per candidate. Extractions run
// sequentially.
func (p *FirecrawlProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.QueryResult, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}

	numCandidates := req.MaxResults
	if numCandidates == 0 {
		numCandidates = p.config.MaxResults
	}
	if numCandidates == 0 {
		numCandidates = defaultCrawlCandidates
	}

	candidates, err := p.searchCandidates(ctx, req.Query, numCandidates)
	if err != nil {
		return nil, err
	}

	results := make([]*types.SourceRecord, 0, len(candidates))
	for _, c := range candidates {
		fullContent, summary, err := p.extract(ctx, c.url)
		if err != nil {
			return nil, err
		}

		results = append(results, &types.SourceRecord{
			Title:      c.title,
			URL:        c.url,
			Content:    summary,
			RawContent: fullContent,
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

type crawlCandidate struct {
	title string
	url   string
}

// searchCandidates asks the backend for candidate pages matching the query.
func (p *FirecrawlProvider) searchCandidates(ctx context.Context, query string, limit int) ([]crawlCandidate, error) {
	reqBody, err := json.Marshal(firecrawlSearchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := p.post(ctx, fmt.Sprintf("%s/v1/search", p.config.APIHost), reqBody)
	if err != nil {
		return nil, err
	}

	var searchResp firecrawlSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "INVALID_RESPONSE",
			Message:  "Failed to decode search response",
			Err:      fmt.Errorf("%w: %v", types.ErrInvalidResponse, err),
		}
	}

	data := searchResp.Data
	if len(data) > limit {
		data = data[:limit]
	}

	candidates := make([]crawlCandidate, len(data))
	for i, d := range data {
		candidates[i] = crawlCandidate{title: d.Title, url: d.URL}
	}
	return candidates, nil
}

// extract runs the schema-constrained extraction against one URL and
// returns the full content and the one-paragraph summary.
func (p *FirecrawlProvider) extract(ctx context.Context, pageURL string) (string, string, error) {
	reqBody, err := json.Marshal(firecrawlExtractRequest{
		URLs:              []string{pageURL},
		Prompt:            extractPrompt,
		Schema:            buildExtractionSchema(extractionFields),
		IgnoreSitemap:     true,
		IncludeSubdomains: false,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := p.post(ctx, fmt.Sprintf("%s/v1/extract", p.config.APIHost), reqBody)
	if err != nil {
		return "", "", err
	}

	// The data object's fields are named by the extraction schema, so the
	// response shape is not statically known.
	fullContent := gjson.GetBytes(body, "data.full_informative_content")
	summary := gjson.GetBytes(body, "data.one_paragraph_summary")
	if !fullContent.Exists() || !summary.Exists() {
		return "", "", &types.ProviderError{
			Provider: p.GetID(),
			Code:     "INVALID_RESPONSE",
			Message:  fmt.Sprintf("Extraction response missing schema fields for %s", pageURL),
			Err:      types.ErrInvalidResponse,
		}
	}

	return fullContent.String(), summary.String(), nil
}

// post sends an authenticated JSON request and returns the response body.
func (p *FirecrawlProvider) post(ctx context.Context, apiURL string, reqBody []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.GetAPIKey()))

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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	return body, nil
}
