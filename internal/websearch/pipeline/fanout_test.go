package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher answers queries from canned data, optionally delaying or
// failing specific queries.
type stubSearcher struct {
	delays map[string]time.Duration
	fails  map[string]error
}

func (s *stubSearcher) Search(ctx context.Context, req *types.SearchRequest) (*types.QueryResult, error) {
	if d, ok := s.delays[req.Query]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.fails[req.Query]; ok {
		return nil, err
	}
	return &types.QueryResult{
		Query: req.Query,
		Results: []*types.SourceRecord{
			{
				Title:   "result for " + req.Query,
				URL:     fmt.Sprintf("https://example.com/%s", req.Query),
				Content: "content",
				Score:   1.0,
			},
		},
	}, nil
}

func TestFanOut_PreservesOrder(t *testing.T) {
	// Later queries complete first; output order must still follow input.
	s := &stubSearcher{delays: map[string]time.Duration{
		"q1": 30 * time.Millisecond,
		"q2": 15 * time.Millisecond,
		"q3": 0,
	}}

	queries := []string{"q1", "q2", "q3"}
	results, err := FanOut(context.Background(), s, queries, 0)
	require.NoError(t, err)

	require.Len(t, results, len(queries))
	for i, q := range queries {
		assert.Equal(t, q, results[i].Query)
	}
}

func TestFanOut_EmptyQueries(t *testing.T) {
	results, err := FanOut(context.Background(), &stubSearcher{}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFanOut_FailFast(t *testing.T) {
	boom := &types.ProviderError{Provider: types.ProviderTavily, Code: "HTTP_500", Message: "boom"}
	s := &stubSearcher{fails: map[string]error{"q2": boom}}

	results, err := FanOut(context.Background(), s, []string{"q1", "q2", "q3"}, 0)
	require.Error(t, err)
	assert.Nil(t, results)

	var perr *types.ProviderError
	assert.ErrorAs(t, err, &perr)
}

func TestFanOutCollect_PartialResults(t *testing.T) {
	boom := errors.New("backend down")
	s := &stubSearcher{fails: map[string]error{"q2": boom}}

	results, errs := FanOutCollect(context.Background(), s, []string{"q1", "q2", "q3"}, 0)
	require.Len(t, results, 3)
	require.Len(t, errs, 3)

	assert.Equal(t, "q1", results[0].Query)
	assert.NoError(t, errs[0])
	assert.Nil(t, results[1])
	assert.ErrorIs(t, errs[1], boom)
	assert.Equal(t, "q3", results[2].Query)
	assert.NoError(t, errs[2])
}
