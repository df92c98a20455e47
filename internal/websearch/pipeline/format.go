package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

const (
	// charsPerToken is a fixed approximation, not exact tokenization.
	charsPerToken    = 4
	truncationMarker = "... [truncated]"
)

// Formatter merges per-query result sets into one deduplicated,
// token-bounded text block.
type Formatter struct {
	log *zap.Logger
}

// NewFormatter creates a formatter. A nil logger disables diagnostics.
func NewFormatter(log *zap.Logger) *Formatter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Formatter{log: log}
}

// DeduplicateAndFormat flattens all records across the supplied result sets,
// collapses duplicate URLs and renders one formatted string. When the same
// URL appears more than once the last occurrence wins, but the block keeps
// the position where the URL was first seen. RawContent is truncated to
// maxTokensPerSource*4 characters.
func (f *Formatter) DeduplicateAndFormat(results []*types.QueryResult, maxTokensPerSource int, includeRawContent bool) string {
	// Flatten, preserving provider order within each result set and input
	// order across sets.
	var sources []*types.SourceRecord
	for _, res := range results {
		if res == nil {
			continue
		}
		sources = append(sources, res.Results...)
	}

	// Deduplicate by URL, last occurrence overwrites, first-seen order kept.
	unique := make(map[string]*types.SourceRecord, len(sources))
	order := make([]string, 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		if src.URL == "" {
			f.log.Warn("dropping source that cannot be deduplicated",
				zap.String("title", src.Title),
				zap.Error(types.ErrMissingURL))
			continue
		}
		if _, seen := unique[src.URL]; !seen {
			order = append(order, src.URL)
		}
		unique[src.URL] = src
	}

	var sb strings.Builder
	sb.WriteString("Sources:\n\n")
	for _, u := range order {
		src := unique[u]
		fmt.Fprintf(&sb, "Source %s:\n===\n", src.Title)
		fmt.Fprintf(&sb, "URL: %s\n===\n", src.URL)
		fmt.Fprintf(&sb, "Most relevant content from source: %s\n===\n", src.Content)

		if includeRawContent {
			charLimit := maxTokensPerSource * charsPerToken
			if charLimit < 0 {
				charLimit = 0
			}
			rawContent := src.RawContent
			if rawContent == "" {
				f.log.Warn("no raw content found for source", zap.String("url", src.URL))
			}
			// The budget counts characters, not bytes, so multi-byte
			// content is cut on rune boundaries.
			if runes := []rune(rawContent); len(runes) > charLimit {
				rawContent = string(runes[:charLimit]) + truncationMarker
			}
			fmt.Fprintf(&sb, "Full source content limited to %d tokens: %s\n\n", maxTokensPerSource, rawContent)
		}
	}

	return strings.TrimSpace(sb.String())
}
