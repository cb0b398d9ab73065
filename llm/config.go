package llm

import (
	"time"

	"github.com/kbukum/quorumbot/resilience"
)

const defaultTimeout = 120 * time.Second

// Config holds configuration for creating an LLM adapter.
type Config struct {
	// Name identifies this adapter instance in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// Dialect selects the provider mapping registered via RegisterDialect.
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// APIKey is sent as a bearer token. Never logged.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Model is the default model when a request names none.
	Model string `yaml:"model" mapstructure:"model"`

	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds a single completion call. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are sent with every request (e.g. OpenRouter's HTTP-Referer).
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimiter    *resilience.RateLimiterConfig    `yaml:"rate_limiter" mapstructure:"rate_limiter"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Dialect == "" {
		c.Dialect = "openai"
	}
	if c.Name == "" {
		c.Name = c.Dialect + "-llm"
	}
}
