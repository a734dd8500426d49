package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/newthinker/pairlens/internal/core"
)

type Config struct {
	Assets    AssetsConfig    `mapstructure:"assets"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Collector CollectorConfig `mapstructure:"collector"`
	Output    OutputConfig    `mapstructure:"output"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

// AssetsConfig names the two assets of the pair.
type AssetsConfig struct {
	A AssetConfig `mapstructure:"a"`
	B AssetConfig `mapstructure:"b"`
}

type AssetConfig struct {
	Symbol string `mapstructure:"symbol"` // provider symbol, e.g. BTC-USD
	Label  string `mapstructure:"label"`  // short label, e.g. BTC
	Name   string `mapstructure:"name"`   // display name, e.g. Bitcoin
}

// AnalysisConfig holds the analysis window and indicator parameters.
type AnalysisConfig struct {
	Start            string  `mapstructure:"start"` // YYYY-MM-DD
	LookbackDays     int     `mapstructure:"lookback_days"`
	PeriodLabel      string  `mapstructure:"period_label"`
	TrendWindow      int     `mapstructure:"trend_window"`
	ShortMA          int     `mapstructure:"short_ma"`
	LongMA           int     `mapstructure:"long_ma"`
	RSIPeriod        int     `mapstructure:"rsi_period"`
	VolatilityWindow int     `mapstructure:"volatility_window"`
	BollingerPeriod  int     `mapstructure:"bollinger_period"`
	BollingerK       float64 `mapstructure:"bollinger_k"`
	RSIEpsilon       float64 `mapstructure:"rsi_epsilon"`
}

// StartDate parses Start.
func (a AnalysisConfig) StartDate() (time.Time, error) {
	return core.ParseDay(a.Start)
}

type CollectorConfig struct {
	Provider          string        `mapstructure:"provider"` // "yahoo" or "binance"
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	BaseURL           string        `mapstructure:"base_url"`
}

// OutputConfig selects where run artifacts are written.
type OutputConfig struct {
	Type   string   `mapstructure:"type"`   // "localfs" or "s3"
	Path   string   `mapstructure:"path"`   // For localfs
	Prefix string   `mapstructure:"prefix"` // key prefix for every run directory
	S3     S3Config `mapstructure:"s3"`     // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Textfile is written after every run for node_exporter's textfile
	// collector. Empty disables it.
	Textfile string `mapstructure:"textfile"`
	// Listen exposes /metrics while the schedule command runs. Empty
	// disables the listener.
	Listen string `mapstructure:"listen"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // empty disables commentary
	Timeout  time.Duration `mapstructure:"timeout"`
	Claude   ClaudeConfig  `mapstructure:"claude"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Ollama   OllamaConfig  `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// NotifyConfig lists the channels that announce published runs. A channel
// without its required fields is disabled.
type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Email    EmailConfig    `mapstructure:"email"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type WebhookConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type EmailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// ScheduleConfig holds the cron expression used by the schedule command.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// Load reads configuration from file on top of Defaults. An empty path
// returns the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAIRLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	bindDefaults(v, Defaults())

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every default so that AutomaticEnv can override
// keys absent from the file.
func bindDefaults(v *viper.Viper, d *Config) {
	for key, val := range map[string]any{
		"assets.a.symbol":               d.Assets.A.Symbol,
		"assets.a.label":                d.Assets.A.Label,
		"assets.a.name":                 d.Assets.A.Name,
		"assets.b.symbol":               d.Assets.B.Symbol,
		"assets.b.label":                d.Assets.B.Label,
		"assets.b.name":                 d.Assets.B.Name,
		"analysis.start":                d.Analysis.Start,
		"analysis.lookback_days":        d.Analysis.LookbackDays,
		"analysis.period_label":         d.Analysis.PeriodLabel,
		"analysis.trend_window":         d.Analysis.TrendWindow,
		"analysis.short_ma":             d.Analysis.ShortMA,
		"analysis.long_ma":              d.Analysis.LongMA,
		"analysis.rsi_period":           d.Analysis.RSIPeriod,
		"analysis.volatility_window":    d.Analysis.VolatilityWindow,
		"analysis.bollinger_period":     d.Analysis.BollingerPeriod,
		"analysis.bollinger_k":          d.Analysis.BollingerK,
		"analysis.rsi_epsilon":          d.Analysis.RSIEpsilon,
		"collector.provider":            d.Collector.Provider,
		"collector.timeout":             d.Collector.Timeout,
		"collector.requests_per_second": d.Collector.RequestsPerSecond,
		"collector.base_url":            d.Collector.BaseURL,
		"output.type":                   d.Output.Type,
		"output.path":                   d.Output.Path,
		"output.prefix":                 d.Output.Prefix,
		"output.s3.bucket":              d.Output.S3.Bucket,
		"output.s3.endpoint":            d.Output.S3.Endpoint,
		"output.s3.region":              d.Output.S3.Region,
		"output.s3.access_key":          d.Output.S3.AccessKey,
		"output.s3.secret_key":          d.Output.S3.SecretKey,
		"output.s3.prefix":              d.Output.S3.Prefix,
		"metrics.enabled":               d.Metrics.Enabled,
		"metrics.textfile":              d.Metrics.Textfile,
		"metrics.listen":                d.Metrics.Listen,
		"llm.provider":                  d.LLM.Provider,
		"llm.timeout":                   d.LLM.Timeout,
		"llm.claude.api_key":            d.LLM.Claude.APIKey,
		"llm.claude.model":              d.LLM.Claude.Model,
		"llm.openai.api_key":            d.LLM.OpenAI.APIKey,
		"llm.openai.model":              d.LLM.OpenAI.Model,
		"llm.openai.base_url":           d.LLM.OpenAI.BaseURL,
		"llm.ollama.endpoint":           d.LLM.Ollama.Endpoint,
		"llm.ollama.model":              d.LLM.Ollama.Model,
		"notify.telegram.bot_token":     d.Notify.Telegram.BotToken,
		"notify.telegram.chat_id":       d.Notify.Telegram.ChatID,
		"notify.webhook.url":            d.Notify.Webhook.URL,
		"notify.email.host":             d.Notify.Email.Host,
		"notify.email.port":             d.Notify.Email.Port,
		"notify.email.username":         d.Notify.Email.Username,
		"notify.email.password":         d.Notify.Email.Password,
		"notify.email.from":             d.Notify.Email.From,
		"notify.email.to":               d.Notify.Email.To,
		"schedule.cron":                 d.Schedule.Cron,
	} {
		v.SetDefault(key, val)
	}
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Assets: AssetsConfig{
			A: AssetConfig{Symbol: "BTC-USD", Label: "BTC", Name: "Bitcoin"},
			B: AssetConfig{Symbol: "ETH-USD", Label: "ETH", Name: "Ethereum"},
		},
		Analysis: AnalysisConfig{
			Start:            "2024-01-01",
			LookbackDays:     60,
			TrendWindow:      30,
			ShortMA:          20,
			LongMA:           50,
			RSIPeriod:        14,
			VolatilityWindow: 20,
			BollingerPeriod:  20,
			BollingerK:       2,
			RSIEpsilon:       1e-5,
		},
		Collector: CollectorConfig{
			Provider:          "yahoo",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 2,
		},
		Output: OutputConfig{
			Type:   "localfs",
			Path:   "./reports",
			Prefix: "runs",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		LLM: LLMConfig{
			Timeout: 60 * time.Second,
		},
		Notify: NotifyConfig{
			Email: EmailConfig{Port: 587},
		},
		Schedule: ScheduleConfig{
			Cron: "0 6 * * *",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for name, a := range map[string]AssetConfig{"a": c.Assets.A, "b": c.Assets.B} {
		if a.Symbol == "" || a.Label == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("assets.%s requires symbol and label", name))
		}
	}
	if c.Assets.A.Symbol == c.Assets.B.Symbol {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("assets must differ, both are %s", c.Assets.A.Symbol))
	}

	// Analysis validation
	if _, err := c.Analysis.StartDate(); err != nil {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("analysis.start must be YYYY-MM-DD: %w", err))
	}
	if c.Analysis.LookbackDays < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lookback_days cannot be negative, got %d", c.Analysis.LookbackDays))
	}
	if c.Analysis.TrendWindow < 3 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trend_window must be at least 3, got %d", c.Analysis.TrendWindow))
	}

	// Collector validation
	switch c.Collector.Provider {
	case "yahoo", "binance":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("collector.provider must be yahoo or binance, got %q", c.Collector.Provider))
	}
	if c.Collector.RequestsPerSecond < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("requests_per_second cannot be negative, got %f", c.Collector.RequestsPerSecond))
	}

	// Output validation
	switch c.Output.Type {
	case "localfs":
		if c.Output.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("output.path required when type is localfs"))
		}
	case "s3":
		if c.Output.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("output.s3.bucket required when type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("output.type must be localfs or s3, got %q", c.Output.Type))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	if e := c.Notify.Email; e.Host != "" && (e.From == "" || len(e.To) == 0) {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("notify.email requires from and to when host is set"))
	}
	if (c.Notify.Telegram.BotToken == "") != (c.Notify.Telegram.ChatID == "") {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("notify.telegram requires both bot_token and chat_id"))
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("schedule.cron: %w", err))
		}
	}

	return nil
}
