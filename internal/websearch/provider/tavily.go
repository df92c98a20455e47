package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

// defaultWebResults caps how many pages the web-search backend returns per
// query. Full-page content is requested, so the cap keeps the payload small.
const defaultWebResults = 2

// TavilyProvider implements the Tavily web search API
type TavilyProvider struct {
	*BaseProvider
}

// NewTavilyProvider creates a new Tavily provider
func NewTavilyProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &TavilyProvider{BaseProvider: base}, nil
}

// tavilyRequest represents a Tavily API request
type tavilyRequest struct {
	Query             string `json:"query"`
	Topic             string `json:"topic,omitempty"`
	MaxResults        int    `json:"max_results,omitempty"`
	IncludeAnswer     bool   `json:"include_answer,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

// tavilyResponse represents a Tavily API response
type tavilyResponse struct {
	Query             string   `json:"query"`
	Answer            string   `json:"answer,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	Images            []string `json:"images,omitempty"`
	Results           []struct {
		Title      string  `json:"title"`
		URL        string  `json:"url"`
		Content    string  `json:"content"`
		RawContent string  `json:"raw_content,omitempty"`
		Score      float64 `json:"score"`
	} `json:"results"`
}

// Search executes a search query using the Tavily API
func (p *TavilyProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.QueryResult, error) {
	startTime := time.Now()

	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}

	// Build request body
	tavilyReq := tavilyRequest{
		Query:             req.Query,
		Topic:             "general",
		MaxResults:        req.MaxResults,
		IncludeAnswer:     true,
		IncludeRawContent: true,
	}

	if tavilyReq.MaxResults == 0 {
		tavilyReq.MaxResults = p.config.MaxResults
	}
	if tavilyReq.MaxResults == 0 {
		tavilyReq.MaxResults = defaultWebResults
	}

	reqBody, err := json.Marshal(tavilyReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Build HTTP request
	apiURL := fmt.Sprintf("%s/search", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.GetAPIKey()))

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

	// Parse response
	var tavilyResp tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tavilyResp); err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "INVALID_RESPONSE",
			Message:  "Failed to decode response",
			Err:      fmt.Errorf("%w: %v", types.ErrInvalidResponse, err),
		}
	}

	// Convert to standard response, score passes through unchanged
	results := make([]*types.SourceRecord, len(tavilyResp.Results))
	for i, r := range tavilyResp.Results {
		results[i] = &types.SourceRecord{
			Title:      r.Title,
			URL:        r.URL,
			Content:    r.Content,
			RawContent: r.RawContent,
			Score:      r.Score,
		}
	}

	return &types.QueryResult{
		Query:             req.Query,
		Results:           results,
		Answer:            tavilyResp.Answer,
		FollowUpQuestions: tavilyResp.FollowUpQuestions,
		Images:            tavilyResp.Images,
		Provider:          p.GetID(),
		Took:              time.Since(startTime).Milliseconds(),
	}, nil
}
