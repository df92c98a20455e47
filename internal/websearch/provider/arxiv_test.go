package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lk2023060901/search-aggregator/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
 You Need</title>
    <summary>The dominant sequence transduction models are based on complex
 recurrent or convolutional neural networks.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce a new language representation model called BERT.</summary>
    <published>2018-10-11T00:50:01Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func arxivTestConfig(host string) *types.ProviderConfig {
	return &types.ProviderConfig{
		ID:      types.ProviderArxiv,
		Name:    "ArXiv",
		APIHost: host,
	}
}

func TestArxivProvider_Search(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/query", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"search_query": q.Get("search_query"),
			"max_results":  q.Get("max_results"),
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(arxivFeedFixture))
	}))
	defer server.Close()

	p, err := NewArxivProvider(arxivTestConfig(server.URL))
	require.NoError(t, err)

	res, err := p.Search(context.Background(), &types.SearchRequest{Query: "transformers"})
	require.NoError(t, err)

	assert.Equal(t, "all:transformers", gotQuery["search_query"])
	assert.Equal(t, "3", gotQuery["max_results"]) // default document cap

	require.Len(t, res.Results, 2)
	first := res.Results[0]
	assert.Equal(t, "Attention Is All You Need", first.Title)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", first.URL)
	assert.Contains(t, first.Content, "sequence transduction models")
	assert.Contains(t, first.RawContent, "Authors: Ashish Vaswani, Noam Shazeer")
	assert.Contains(t, first.RawContent, "Published: 2017-06-12T17:57:34Z")

	// arXiv has no native relevance score.
	assert.Equal(t, 1.0, first.Score)
	assert.Equal(t, 1.0, res.Results[1].Score)
}

func TestArxivProvider_Search_MaxDocs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))
		_, _ = w.Write([]byte(arxivFeedFixture))
	}))
	defer server.Close()

	p, err := NewArxivProvider(arxivTestConfig(server.URL))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q", MaxResults: 5})
	require.NoError(t, err)
}

func TestArxivProvider_Search_MalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<feed><entry><unclosed></feed>`))
	}))
	defer server.Close()

	p, err := NewArxivProvider(arxivTestConfig(server.URL))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.Error(t, err)

	var perr *types.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "INVALID_RESPONSE", perr.Code)
}

func TestArxivProvider_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p, err := NewArxivProvider(arxivTestConfig(server.URL))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q"})

	var perr *types.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "HTTP_503", perr.Code)
}
