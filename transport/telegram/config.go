package telegram

import (
	"fmt"
	"time"

	"github.com/kbukum/quorumbot/resilience"
)

// Receive modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config configures the Telegram adapter.
type Config struct {
	// Token is the bot token issued by BotFather.
	Token string `mapstructure:"token"`
	// BaseURL is the Bot API root.
	BaseURL string `mapstructure:"base_url"`
	// Mode is "polling" or "webhook".
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	// PollTimeout is the getUpdates long-poll duration.
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	// RequestTimeout bounds every other API call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// WebhookURL is registered with setWebhook in webhook mode.
	WebhookURL string `mapstructure:"webhook_url"`
	// WebhookSecret is checked against the X-Telegram-Bot-Api-Secret-Token header.
	WebhookSecret string `mapstructure:"webhook_secret"`
	// RateLimiter paces outbound calls.
	RateLimiter *resilience.RateLimiterConfig `mapstructure:"rate_limiter"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.telegram.org"
	}
	if c.Mode == "" {
		c.Mode = ModePolling
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 30 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.RateLimiter == nil {
		rl := resilience.DefaultRateLimiterConfig("telegram")
		c.RateLimiter = &rl
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("telegram: token is required")
	}
	switch c.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("telegram: webhook_url is required in webhook mode")
		}
	default:
		return fmt.Errorf("telegram: unknown mode %q", c.Mode)
	}
	return nil
}
