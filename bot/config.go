package bot

import (
	"fmt"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/battle"
	"github.com/kbukum/quorumbot/config"
	"github.com/kbukum/quorumbot/database"
	"github.com/kbukum/quorumbot/llm"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/prompt"
	"github.com/kbukum/quorumbot/redis"
	"github.com/kbukum/quorumbot/server"
	"github.com/kbukum/quorumbot/transcription/whisper"
	"github.com/kbukum/quorumbot/transport/telegram"
	"github.com/kbukum/quorumbot/validation"
	"github.com/kbukum/quorumbot/version"
)

const (
	defaultMaxMessageLength    = 4000
	defaultMaxConcurrentEvents = 16
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1"
)

// Config tunes the dispatcher.
type Config struct {
	// TargetChatID is the only chat the bot answers in. 0 accepts every chat.
	TargetChatID int64 `yaml:"target_chat_id" mapstructure:"target_chat_id"`
	// MaxMessageLength is the outbound chunk size in characters.
	MaxMessageLength int `yaml:"max_message_length" mapstructure:"max_message_length" validate:"gte=0"`
	// MaxConcurrentEvents bounds events handled at once.
	MaxConcurrentEvents int `yaml:"max_concurrent_events" mapstructure:"max_concurrent_events" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = defaultMaxMessageLength
	}
	if c.MaxConcurrentEvents == 0 {
		c.MaxConcurrentEvents = defaultMaxConcurrentEvents
	}
}

// AppConfig is the whole quorumbot configuration as read from config.yml
// and the environment.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Bot           Config                `yaml:"bot" mapstructure:"bot"`
	LLM           llm.Config            `yaml:"llm" mapstructure:"llm"`
	Backends      backend.CatalogConfig `yaml:"backends" mapstructure:"backends"`
	Prompt        prompt.Config         `yaml:"prompt" mapstructure:"prompt"`
	Battle        battle.Config         `yaml:"battle" mapstructure:"battle"`
	Telegram      telegram.Config       `yaml:"telegram" mapstructure:"telegram"`
	Whisper       whisper.Config        `yaml:"whisper" mapstructure:"whisper"`
	Database      database.Config       `yaml:"database" mapstructure:"database"`
	Redis         redis.Config          `yaml:"redis" mapstructure:"redis"`
	Server        server.Config         `yaml:"server" mapstructure:"server"`
	Observability observability.Config  `yaml:"observability" mapstructure:"observability"`
}

// EnvAliases maps the short environment names used in .env files to
// config keys.
var EnvAliases = map[string]string{
	"OPENROUTER_TOKEN": "llm.api_key",
	"TARGET_CHAT_ID":   "bot.target_chat_id",
	"TELEGRAM_TOKEN":   "telegram.token",
	"WHISPER_API_KEY":  "whisper.api_key",
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Bot.ApplyDefaults()
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if c.LLM.Name == "" {
		c.LLM.Name = "openrouter"
	}
	c.LLM.ApplyDefaults()
	c.Backends.ApplyDefaults()
	c.Prompt.ApplyDefaults()
	if c.Battle.Project == "" {
		c.Battle.Project = c.Prompt.Project
	}
	c.Telegram.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags first, then each section's own rules.
// Telegram is validated where the client is built since ask never needs it.
func (c *AppConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	checks := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"server", c.Server.Validate},
	}
	for _, chk := range checks {
		if err := chk.fn(); err != nil {
			return fmt.Errorf("%s: %w", chk.name, err)
		}
	}
	return nil
}

// LoadConfig reads config.yml and .env (explicit paths win over discovery),
// applies defaults and validates.
func LoadConfig(configFile, envFile string) (*AppConfig, error) {
	opts := []config.LoaderOption{config.WithEnvAliases(EnvAliases)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig("quorumbot", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
