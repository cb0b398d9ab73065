package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/quorumbot/transport/telegram"
)

func TestAppConfigDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()

	if cfg.Name != "quorumbot" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Version == "" {
		t.Error("Version not defaulted")
	}
	if cfg.Bot.MaxMessageLength != 4000 || cfg.Bot.MaxConcurrentEvents != 16 {
		t.Errorf("Bot = %+v", cfg.Bot)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1" || cfg.LLM.Name != "openrouter" || cfg.LLM.Dialect != "openai" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if len(cfg.Backends.Quorum) != 3 || cfg.Backends.Synthesizer.Name != "Claude" {
		t.Errorf("Backends = %+v", cfg.Backends)
	}
	if cfg.Battle.Project != cfg.Prompt.Project {
		t.Errorf("Battle.Project = %q, want %q", cfg.Battle.Project, cfg.Prompt.Project)
	}
	if cfg.Telegram.Mode != telegram.ModePolling {
		t.Errorf("Telegram.Mode = %q", cfg.Telegram.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad environment", func(c *AppConfig) { c.Environment = "moon" }},
		{"bad base url", func(c *AppConfig) { c.LLM.BaseURL = "not a url" }},
		{"negative chunk size", func(c *AppConfig) { c.Bot.MaxMessageLength = -1 }},
		{"bad whisper task", func(c *AppConfig) { c.Whisper.Task = "dance" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yml")
	content := `
name: quorumbot
environment: production
bot:
  max_message_length: 3000
prompt:
  project: Atlas
backends:
  quorum:
    - { id: openai/gpt-4o, name: ChatGPT }
  synthesizer: { id: anthropic/claude-4.5-sonnet, name: Claude }
  aliases:
    gpt: { id: openai/gpt-4o, name: ChatGPT }
`
	if err := os.WriteFile(cfgFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENROUTER_TOKEN", "sk-test")
	t.Setenv("TARGET_CHAT_ID", "-1001234")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadConfig(cfgFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.Bot.TargetChatID != -1001234 {
		t.Errorf("Bot.TargetChatID = %d", cfg.Bot.TargetChatID)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if cfg.Bot.MaxMessageLength != 3000 {
		t.Errorf("Bot.MaxMessageLength = %d", cfg.Bot.MaxMessageLength)
	}
	if cfg.Battle.Project != "Atlas" {
		t.Errorf("Battle.Project = %q", cfg.Battle.Project)
	}
	if len(cfg.Backends.Quorum) != 1 || cfg.Backends.Aliases["gpt"].Name != "ChatGPT" {
		t.Errorf("Backends = %+v", cfg.Backends)
	}
}
