package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// ExtractConfig parameterizes the association engine
type ExtractConfig struct {
	// Keywords is the controlled vocabulary for assignment-like lines.
	// Multi-word terms match across any run of whitespace.
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`

	// LookbackWindow is how many lines back a keyword line may adopt a date from
	LookbackWindow int `yaml:"lookback_window" mapstructure:"lookback_window"`

	// MaxTitleLen truncates runaway titles (OCR noise can produce huge lines)
	MaxTitleLen int `yaml:"max_title_len" mapstructure:"max_title_len"`
}

// LLMConfig configures the optional repair pass
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// RequestsPerMinute throttles repair calls in batch mode (0 = unlimited)
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`

	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig configures the extraction result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ServerConfig configures the HTTP upload layer
type ServerConfig struct {
	Addr           string `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// OutputConfig configures rendering and verbosity
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultKeywords is the stock assignment vocabulary. It is configuration,
// not derived data; deployments may extend it via the config file.
var DefaultKeywords = []string{
	"homework", "hw", "problem set", "assignment", "quiz",
	"exam", "midterm", "final", "project", "portfolio",
	"paper", "essay", "lab", "presentation", "prototype",
	"reading response", "discussion post", "reflection",
	"due", "submit", "turn in",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Keywords:       append([]string(nil), DefaultKeywords...),
			LookbackWindow: 3,
			MaxTitleLen:    300,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.syllascan/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			MaxUploadBytes: 25 << 20,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
