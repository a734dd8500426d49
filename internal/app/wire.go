package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/collector"
	"github.com/newthinker/pairlens/internal/collector/binance"
	"github.com/newthinker/pairlens/internal/collector/yahoo"
	"github.com/newthinker/pairlens/internal/config"
	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/llm/factory"
	"github.com/newthinker/pairlens/internal/metrics"
	"github.com/newthinker/pairlens/internal/narrator"
	"github.com/newthinker/pairlens/internal/notifier"
	"github.com/newthinker/pairlens/internal/notifier/email"
	"github.com/newthinker/pairlens/internal/notifier/telegram"
	"github.com/newthinker/pairlens/internal/notifier/webhook"
	"github.com/newthinker/pairlens/internal/storage/archive"
)

// NewFromConfig validates cfg and builds an App with every collector
// registered, the configured storage, metrics and optional commentary.
func NewFromConfig(cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := New(cfg, log)

	cc := collector.Config{
		Timeout:           cfg.Collector.Timeout,
		RequestsPerSecond: cfg.Collector.RequestsPerSecond,
		BaseURL:           cfg.Collector.BaseURL,
	}
	a.RegisterCollector(yahoo.New(cc))
	a.RegisterCollector(binance.New(cc))

	st, err := NewStorage(cfg.Output)
	if err != nil {
		return nil, err
	}
	a.SetStorage(st)

	if cfg.Metrics.Enabled {
		a.SetMetrics(metrics.NewRegistry())
	}

	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		a.SetNarrator(narrator.New(provider, a.logger))
	}

	for _, n := range Notifiers(cfg.Notify) {
		if err := a.RegisterNotifier(n); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("app configured",
		zap.String("collector", cfg.Collector.Provider),
		zap.String("output", cfg.Output.Type),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.String("llm", cfg.LLM.Provider),
		zap.Strings("notifiers", a.notifiers.Names()),
	)
	return a, nil
}

// NewStorage opens the artifact storage selected by cfg.Type.
func NewStorage(cfg config.OutputConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "", "localfs":
		st, err := archive.NewLocalFS(cfg.Path)
		if err != nil {
			return nil, core.WrapError(core.ErrArchiveFailed, err)
		}
		return st, nil
	case "s3":
		st, err := archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		return st, nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown output type: %s", cfg.Type))
	}
}

// Notifiers builds one notifier per configured channel.
func Notifiers(cfg config.NotifyConfig) []notifier.Notifier {
	var out []notifier.Notifier
	if t := cfg.Telegram; t.BotToken != "" && t.ChatID != "" {
		out = append(out, telegram.New(t.BotToken, t.ChatID))
	}
	if w := cfg.Webhook; w.URL != "" {
		out = append(out, webhook.New(w.URL, w.Headers))
	}
	if e := cfg.Email; e.Host != "" {
		out = append(out, email.New(e.Host, e.Port, e.Username, e.Password, e.From, e.To))
	}
	return out
}
