package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

// Searcher is the slice of the provider contract the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, req *types.SearchRequest) (*types.QueryResult, error)
}

// FanOut issues every query concurrently against one provider and returns
// one result per query, in the caller's order. The batch is fail-fast: the
// first query error cancels the remaining in-flight queries and is returned
// as the batch error.
func FanOut(ctx context.Context, s Searcher, queries []string, maxResults int) ([]*types.QueryResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]*types.QueryResult, len(queries))

	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			res, err := s.Search(gctx, &types.SearchRequest{Query: query, MaxResults: maxResults})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FanOutCollect is the isolating variant of FanOut: every query runs to
// completion and failures are reported per slot instead of aborting the
// batch. results[i] is nil exactly when errs[i] is non-nil.
func FanOutCollect(ctx context.Context, s Searcher, queries []string, maxResults int) ([]*types.QueryResult, []error) {
	results := make([]*types.QueryResult, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results[i], errs[i] = s.Search(ctx, &types.SearchRequest{Query: query, MaxResults: maxResults})
		}(i, query)
	}
	wg.Wait()

	return results, errs
}
