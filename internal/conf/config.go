package conf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig      `mapstructure:"log"`
	Format    FormatConfig   `mapstructure:"format"`
	Tavily    ProviderConfig `mapstructure:"tavily"`
	Arxiv     ProviderConfig `mapstructure:"arxiv"`
	Firecrawl ProviderConfig `mapstructure:"firecrawl"`
}

type ProviderConfig struct {
	APIHost    string `mapstructure:"api_host"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"`     // seconds
	MaxResults int    `mapstructure:"max_results"` // per-query result cap
}

type FormatConfig struct {
	MaxTokensPerSource int  `mapstructure:"max_tokens_per_source"`
	IncludeRawContent  bool `mapstructure:"include_raw_content"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig reads configuration from the given file, with environment
// variables layered on top. API keys are bound to the conventional
// TAVILY_API_KEY / FIRECRAWL_API_KEY variables, so a config file is optional
// when the environment carries the credentials.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "console")
	v.SetDefault("format.max_tokens_per_source", 1000)
	v.SetDefault("format.include_raw_content", true)
	v.SetDefault("tavily.api_host", "https://api.tavily.com")
	v.SetDefault("arxiv.api_host", "http://export.arxiv.org")
	v.SetDefault("firecrawl.api_host", "https://api.firecrawl.dev")

	// Credentials come from the process environment unless the file
	// overrides them.
	_ = v.BindEnv("tavily.api_key", "TAVILY_API_KEY")
	_ = v.BindEnv("firecrawl.api_key", "FIRECRAWL_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Missing config file: defaults plus environment are enough.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
