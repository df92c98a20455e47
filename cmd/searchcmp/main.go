package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/lk2023060901/search-aggregator/internal/conf"
	"github.com/lk2023060901/search-aggregator/internal/pkg/logger"
	"github.com/lk2023060901/search-aggregator/internal/websearch/pipeline"
	"github.com/lk2023060901/search-aggregator/internal/websearch/provider"
	"github.com/lk2023060901/search-aggregator/internal/websearch/types"
)

var configFile = flag.String("config", "config.yaml", "config file path")

// testQueries exercise all three backends with the same search intent.
var testQueries = []string{
	"advances in transformer neural networks",
	"climate change impact on biodiversity",
	"quantum computing applications",
}

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if config.Tavily.APIKey == "" {
		log.Warn("TAVILY_API_KEY is not set, tavily search will fail")
	}
	if config.Firecrawl.APIKey == "" {
		log.Warn("FIRECRAWL_API_KEY is not set, firecrawl search will fail")
	}

	providerConfigs := []*types.ProviderConfig{
		{
			ID:         types.ProviderTavily,
			Name:       "Tavily",
			APIHost:    config.Tavily.APIHost,
			APIKey:     config.Tavily.APIKey,
			Timeout:    config.Tavily.Timeout,
			MaxResults: config.Tavily.MaxResults,
		},
		{
			ID:         types.ProviderArxiv,
			Name:       "ArXiv",
			APIHost:    config.Arxiv.APIHost,
			Timeout:    config.Arxiv.Timeout,
			MaxResults: config.Arxiv.MaxResults,
		},
		{
			ID:         types.ProviderFirecrawl,
			Name:       "Firecrawl",
			APIHost:    config.Firecrawl.APIHost,
			APIKey:     config.Firecrawl.APIKey,
			Timeout:    config.Firecrawl.Timeout,
			MaxResults: config.Firecrawl.MaxResults,
		},
	}

	ctx := context.Background()
	factory := provider.NewFactory()

	// One provider failing must not stop the comparison, so each run is
	// wrapped individually.
	allResults := make(map[types.ProviderID][]*types.QueryResult)
	for _, pc := range providerConfigs {
		results, err := runProvider(ctx, factory, pc)
		if err != nil {
			log.Error("provider run failed", zap.String("provider", string(pc.ID)), zap.Error(err))
			continue
		}
		allResults[pc.ID] = results
		printSample(pc.Name, results)
	}

	compareResults(providerConfigs, allResults)

	// Render one provider's merged block and report its real token count
	// next to the 4-chars/token budget estimate.
	if results, ok := allResults[types.ProviderTavily]; ok {
		formatter := pipeline.NewFormatter(log.Logger)
		block := formatter.DeduplicateAndFormat(results, config.Format.MaxTokensPerSource, config.Format.IncludeRawContent)

		fmt.Printf("\n=== Formatted block (%d chars) ===\n%s\n", len(block), block)

		if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			fmt.Printf("\nExact token count (cl100k_base): %d\n", len(enc.Encode(block, nil, nil)))
		}
	}
}

// runProvider builds one provider and fans the test queries out against it.
func runProvider(ctx context.Context, factory *provider.Factory, pc *types.ProviderConfig) ([]*types.QueryResult, error) {
	p, err := factory.Create(pc)
	if err != nil {
		return nil, err
	}
	return pipeline.FanOut(ctx, p, testQueries, pc.MaxResults)
}

// printSample prints the first result set of one provider run.
func printSample(name string, results []*types.QueryResult) {
	fmt.Printf("\n=== %s: %d result sets ===\n", name, len(results))
	if len(results) == 0 {
		return
	}

	res := results[0]
	fmt.Printf("Query: %s (%d sources)\n", res.Query, len(res.Results))
	if len(res.Results) > 0 {
		src := res.Results[0]
		content := src.Content
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		fmt.Printf("  Title: %s\n  URL: %s\n  Content: %s\n", src.Title, src.URL, content)
	}
	fmt.Println("... (more results available)")
}

// compareResults prints per-query source counts side by side.
func compareResults(configs []*types.ProviderConfig, all map[types.ProviderID][]*types.QueryResult) {
	fmt.Println("\n=== Results Comparison ===")
	if len(all) < len(configs) {
		fmt.Println("Cannot compare all providers because one or more runs failed.")
	}

	for i, query := range testQueries {
		fmt.Printf("\nFor query: %q\n", query)
		for _, pc := range configs {
			results, ok := all[pc.ID]
			if !ok || i >= len(results) {
				fmt.Printf("  %s: unavailable\n", pc.Name)
				continue
			}
			fmt.Printf("  %s: %d sources\n", pc.Name, len(results[i].Results))
		}
	}
}
