// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call the
// code-hosting API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "analytics-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the retries on rate-limited responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// GitHubConfig configures the GitHub REST client.
type GitHubConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root (default https://api.github.com).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Token is the personal access token. Loaded from .secrets/github-token
	// when not configured.
	Token string `json:"-" yaml:"-" mapstructure:"token"`

	// RequestsPerSecond paces outgoing API calls (0 disables pacing).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ScanConfig holds settings for the repository scanner.
type ScanConfig struct {
	// BatchSize is the number of files fetched concurrently (default 10).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// Include lists the default include globs.
	Include []string `json:"include" yaml:"include" mapstructure:"include"`

	// Exclude lists the default exclude substrings.
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`
}

// OrgSearchConfig holds settings for the organization search.
type OrgSearchConfig struct {
	// MaxRepos caps the repositories scanned in the exact-match phase (default 10).
	MaxRepos int `json:"max_repos" yaml:"max_repos" mapstructure:"max_repos"`

	// MaxFiles caps the prioritized files fetched per repository (default 50).
	MaxFiles int `json:"max_files" yaml:"max_files" mapstructure:"max_files"`

	// BatchSize is the number of files fetched concurrently (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// BatchDelay is the minimum interval between batches (default 1s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay" mapstructure:"batch_delay"`
}

// CacheConfig configures the optional SQLite content cache.
type CacheConfig struct {
	// Path is the database file. An empty path disables the cache.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached file stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all component configurations.
type Config struct {
	LogLevel  string          `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	GitHub    GitHubConfig    `json:"github" yaml:"github" mapstructure:"github"`
	Scan      ScanConfig      `json:"scan" yaml:"scan" mapstructure:"scan"`
	OrgSearch OrgSearchConfig `json:"org_search" yaml:"org_search" mapstructure:"org_search"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		GitHub: GitHubConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  "analytics-scout/0.1",
				MaxRetries: 5,
			},
			BaseURL:           "https://api.github.com",
			RequestsPerSecond: 10,
		},
		Scan: ScanConfig{
			BatchSize: 10,
			Include:   []string{"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx", "**/*.vue"},
			Exclude:   []string{"node_modules", "dist/", "build/", ".min.js", "vendor/", "coverage/"},
		},
		OrgSearch: OrgSearchConfig{
			MaxRepos:   10,
			MaxFiles:   50,
			BatchSize:  5,
			BatchDelay: time.Second,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
