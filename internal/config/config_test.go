package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
assets:
  a:
    symbol: SOL-USD
    label: SOL
    name: Solana
analysis:
  start: "2025-03-01"
  long_ma: 100
collector:
  provider: binance
  timeout: 30s
output:
  type: localfs
  path: /tmp/pairlens
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "SOL-USD", cfg.Assets.A.Symbol)
	assert.Equal(t, "Solana", cfg.Assets.A.Name)
	assert.Equal(t, "ETH-USD", cfg.Assets.B.Symbol, "unset keys keep defaults")
	assert.Equal(t, "2025-03-01", cfg.Analysis.Start)
	assert.Equal(t, 100, cfg.Analysis.LongMA)
	assert.Equal(t, 14, cfg.Analysis.RSIPeriod)
	assert.Equal(t, "binance", cfg.Collector.Provider)
	assert.Equal(t, 30*time.Second, cfg.Collector.Timeout)
	assert.Equal(t, "/tmp/pairlens", cfg.Output.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Notify(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
notify:
  webhook:
    url: https://hooks.example.com/pairlens
    headers:
      Authorization: Bearer token
  email:
    host: smtp.example.com
    from: pairlens@example.com
    to: [ops@example.com, desk@example.com]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/pairlens", cfg.Notify.Webhook.URL)
	assert.Equal(t, "Bearer token", cfg.Notify.Webhook.Headers["authorization"])
	assert.Equal(t, 587, cfg.Notify.Email.Port)
	assert.Equal(t, []string{"ops@example.com", "desk@example.com"}, cfg.Notify.Email.To)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[analysis]
start = "2023-06-01"
trend_window = 45
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Analysis.TrendWindow)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CLAUDE_KEY", "sk-test")
	path := writeConfig(t, "config.yaml", `
llm:
  provider: claude
  claude:
    api_key: ${TEST_CLAUDE_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.Claude.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PAIRLENS_OUTPUT_PATH", "/var/lib/pairlens")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/pairlens", cfg.Output.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "BTC-USD", cfg.Assets.A.Symbol)
	assert.Equal(t, "2024-01-01", cfg.Analysis.Start)
	assert.Equal(t, 60, cfg.Analysis.LookbackDays)
	assert.Equal(t, 30, cfg.Analysis.TrendWindow)
	assert.Equal(t, "yahoo", cfg.Collector.Provider)
	assert.Empty(t, cfg.LLM.Provider, "commentary is off by default")
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   *core.Error
	}{
		{"missing symbol", func(c *Config) { c.Assets.B.Symbol = "" }, core.ErrConfigMissing},
		{"same assets", func(c *Config) { c.Assets.B = c.Assets.A }, core.ErrConfigInvalid},
		{"bad start", func(c *Config) { c.Analysis.Start = "01/01/2024" }, core.ErrConfigInvalid},
		{"negative lookback", func(c *Config) { c.Analysis.LookbackDays = -1 }, core.ErrConfigInvalid},
		{"tiny trend window", func(c *Config) { c.Analysis.TrendWindow = 2 }, core.ErrConfigInvalid},
		{"unknown collector", func(c *Config) { c.Collector.Provider = "bloomberg" }, core.ErrConfigInvalid},
		{"localfs without path", func(c *Config) { c.Output.Path = "" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Output.Type = "s3" }, core.ErrConfigMissing},
		{"unknown output", func(c *Config) { c.Output.Type = "ftp" }, core.ErrConfigInvalid},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, core.ErrConfigMissing},
		{"unknown llm", func(c *Config) { c.LLM.Provider = "gemini" }, core.ErrConfigInvalid},
		{"email without recipients", func(c *Config) { c.Notify.Email.Host = "smtp.example.com" }, core.ErrConfigMissing},
		{"telegram without chat", func(c *Config) { c.Notify.Telegram.BotToken = "123:abc" }, core.ErrConfigMissing},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "every day" }, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
