package model

import "time"

// Config holds the full quotecheck configuration
type Config struct {
	Oracle    OracleConfig    `yaml:"oracle" mapstructure:"oracle"`
	Chunk     ChunkConfig     `yaml:"chunk" mapstructure:"chunk"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// OracleConfig configures the external verification oracle
type OracleConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // From environment only, never persisted
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per chunk
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ChunkConfig bounds manuscript segmentation
type ChunkConfig struct {
	MaxSize int `yaml:"max_size" mapstructure:"max_size"` // bytes per chunk
}

// CacheConfig controls the oracle response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig paces outbound oracle calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// BatchConfig controls parallel verification of multiple manuscripts
type BatchConfig struct {
	Workers   int    `yaml:"workers" mapstructure:"workers"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// OutputConfig controls report output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider:  "openai",
			Timeout:   120,
			MaxTokens: 4000,
		},
		Chunk: ChunkConfig{
			MaxSize: 12000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0.5,
			Burst:             1,
		},
		Batch: BatchConfig{
			Workers:   4,
			OutputDir: "./quotecheck-reports",
		},
	}
}
