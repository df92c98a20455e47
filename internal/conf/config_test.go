package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
  output: console
format:
  max_tokens_per_source: 250
  include_raw_content: false
tavily:
  api_key: file-key
  max_results: 4
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, 250, config.Format.MaxTokensPerSource)
	assert.False(t, config.Format.IncludeRawContent)
	assert.Equal(t, "file-key", config.Tavily.APIKey)
	assert.Equal(t, 4, config.Tavily.MaxResults)

	// Defaults fill what the file leaves out.
	assert.Equal(t, "https://api.tavily.com", config.Tavily.APIHost)
	assert.Equal(t, "http://export.arxiv.org", config.Arxiv.APIHost)
	assert.Equal(t, "https://api.firecrawl.dev", config.Firecrawl.APIHost)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-tavily-key")
	t.Setenv("FIRECRAWL_API_KEY", "env-fc-key")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-tavily-key", config.Tavily.APIKey)
	assert.Equal(t, "env-fc-key", config.Firecrawl.APIKey)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, 1000, config.Format.MaxTokensPerSource)
	assert.True(t, config.Format.IncludeRawContent)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
