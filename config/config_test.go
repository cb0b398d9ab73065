package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Telegram      struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`
	LLM struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"llm"`
}

type fakeFS struct {
	files map[string]bool
}

func (f fakeFS) Exists(path string) bool { return f.files[path] }
func (f fakeFS) LoadEnv(string) error    { return nil }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
name: quorumbot
environment: production
telegram:
  token: from-yaml
  chat_id: -100123
`)
	t.Setenv("TELEGRAM_TOKEN", "from-env")

	var cfg testConfig
	if err := LoadConfig("quorumbot", &cfg, WithConfigFile(cfgFile)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "quorumbot" || cfg.Environment != "production" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("chat_id = %d", cfg.Telegram.ChatID)
	}
}

func TestLoadConfig_EnvFileAndAliases(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "QB_TEST_OPENROUTER_KEY=sk-test\n")
	t.Cleanup(func() { os.Unsetenv("QB_TEST_OPENROUTER_KEY") })

	var cfg testConfig
	err := LoadConfig("quorumbot", &cfg,
		WithEnvFile(envFile),
		WithEnvAliases(map[string]string{"QB_TEST_OPENROUTER_KEY": "llm.api_key"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("expected alias to fill llm.api_key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", "name: [unterminated")

	var cfg testConfig
	if err := LoadConfig("quorumbot", &cfg, WithConfigFile(cfgFile)); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}

func TestLoadConfig_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	var cfg testConfig
	err := LoadConfig("quorumbot", &cfg)
	if err != nil {
		t.Fatalf("LoadConfig without files should succeed: %v", err)
	}
}

func TestFirstExisting(t *testing.T) {
	fs := fakeFS{files: map[string]bool{"../cmd/quorumbot/config.yml": true}}
	if got := firstExisting(fs, configCandidates("quorumbot")); got != "../cmd/quorumbot/config.yml" {
		t.Errorf("firstExisting = %q", got)
	}
	if got := firstExisting(fs, envCandidates("quorumbot")); got != "" {
		t.Errorf("expected no env file, got %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"DEBUG", []string{"debug"}},
		{"TELEGRAM_TOKEN", []string{"telegram_token", "telegram.token"}},
		{"LLM_API_KEY", []string{"llm_api_key", "llm.api.key", "llm.api_key"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := envKeyVariants(tc.in)
			if !slices.Equal(got, tc.want) {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := ServiceConfig{}
	cfg.ApplyDefaults()
	if cfg.Name != "quorumbot" || cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("development level = %q, want debug", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg.Environment = "qa"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid environment error")
	}
}
