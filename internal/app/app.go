package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/analysis"
	"github.com/newthinker/pairlens/internal/chart"
	"github.com/newthinker/pairlens/internal/collector"
	"github.com/newthinker/pairlens/internal/config"
	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
	"github.com/newthinker/pairlens/internal/insight"
	"github.com/newthinker/pairlens/internal/logger"
	"github.com/newthinker/pairlens/internal/metrics"
	"github.com/newthinker/pairlens/internal/narrator"
	"github.com/newthinker/pairlens/internal/notifier"
	"github.com/newthinker/pairlens/internal/storage/archive"
	"github.com/newthinker/pairlens/internal/trend"
)

// Artifact names written for every run.
const (
	ArtifactInsights   = "insights.txt"
	ArtifactOverview   = "overview.png"
	ArtifactTechnical  = "technical.png"
	ArtifactSummary    = "summary.json"
	ArtifactCommentary = "commentary.md"
)

// RunSummary describes a finished run.
type RunSummary struct {
	RunID     string
	Dir       string
	Artifacts []string
	Started   time.Time
	Finished  time.Time
	Result    *analysis.Result
	// Commentary is true when commentary.md was written.
	Commentary bool
}

// App is the main application orchestrator
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	collectors *collector.Registry
	storage    archive.Storage
	metrics    *metrics.Registry
	narrator   *narrator.Narrator
	notifiers  *notifier.Registry
	chartOpts  chart.Options
	now        func() time.Time

	mu      sync.RWMutex
	runs    int
	failed  int
	lastRun *RunSummary
}

// New creates a new App instance. Collectors, storage, metrics and the
// narrator are attached afterwards; NewFromConfig does all of it.
func New(cfg *config.Config, log *zap.Logger) *App {
	return &App{
		cfg:        cfg,
		logger:     logger.OrNop(log),
		collectors: collector.NewRegistry(),
		notifiers:  notifier.NewRegistry(),
		chartOpts:  chart.DefaultOptions(),
		now:        time.Now,
	}
}

// RegisterCollector adds a collector to the app
func (a *App) RegisterCollector(c collector.Collector) {
	a.collectors.Register(c)
}

// SetStorage sets where artifacts are published.
func (a *App) SetStorage(st archive.Storage) {
	a.storage = st
}

// SetMetrics enables run metrics.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// SetNarrator enables LLM commentary.
func (a *App) SetNarrator(n *narrator.Narrator) {
	a.narrator = n
}

// RegisterNotifier adds a channel that announces published runs.
func (a *App) RegisterNotifier(n notifier.Notifier) error {
	return a.notifiers.Register(n)
}

// SetClock replaces time.Now.
func (a *App) SetClock(now func() time.Time) {
	a.now = now
}

// SetChartOptions overrides the chart canvas size.
func (a *App) SetChartOptions(opts chart.Options) {
	a.chartOpts = opts
}

// RunOnce fetches both assets, runs the analysis and publishes the
// artifacts under <prefix>/<YYYY-MM-DD>-<run id>/. Nothing is written when
// any step before publishing fails.
func (a *App) RunOnce(ctx context.Context) (*RunSummary, error) {
	started := a.now()
	runID := uuid.NewString()
	log := logger.ForRun(a.logger, runID)
	log.Info("run started",
		zap.String("asset_a", a.cfg.Assets.A.Symbol),
		zap.String("asset_b", a.cfg.Assets.B.Symbol),
	)

	sum, err := a.run(ctx, log, runID, started)
	finished := a.now()

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
	}
	a.recordRun(log, status, started, finished)

	a.mu.Lock()
	a.runs++
	if err != nil {
		a.failed++
	}
	a.mu.Unlock()

	if err != nil {
		log.Error("run failed", zap.Error(err), zap.Duration("duration", finished.Sub(started)))
		return nil, err
	}

	sum.Finished = finished
	a.mu.Lock()
	a.lastRun = sum
	a.mu.Unlock()

	a.announce(ctx, log, sum)

	log.Info("run finished",
		zap.String("dir", sum.Dir),
		zap.Int("artifacts", len(sum.Artifacts)),
		zap.Duration("duration", finished.Sub(started)),
	)
	return sum, nil
}

func (a *App) run(ctx context.Context, log *zap.Logger, runID string, started time.Time) (*RunSummary, error) {
	if a.storage == nil {
		return nil, core.WrapError(core.ErrConfigMissing, errors.New("no output storage configured"))
	}
	start, err := a.cfg.Analysis.StartDate()
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}
	c, err := a.collectors.Lookup(a.cfg.Collector.Provider)
	if err != nil {
		return nil, err
	}

	from := start.AddDate(0, 0, -a.cfg.Analysis.LookbackDays)
	assets := make([]analysis.Asset, 0, 2)
	for _, ac := range []config.AssetConfig{a.cfg.Assets.A, a.cfg.Assets.B} {
		ts, err := collector.Fetch(ctx, c, ac.Symbol, from, started)
		if err != nil {
			return nil, err
		}
		log.Debug("series fetched",
			zap.String("symbol", ac.Symbol),
			zap.String("collector", c.Name()),
			zap.Int("points", ts.Len()),
		)
		if a.metrics != nil {
			a.metrics.SetSeriesPoints(ac.Label, ts.Len())
		}
		assets = append(assets, analysis.Asset{Label: ac.Label, Name: ac.Name, Series: ts})
	}

	res, err := analysis.Run(a.params(start), assets[0], assets[1])
	if err != nil {
		return nil, err
	}
	a.recordResult(res)

	artifacts, err := a.render(res)
	if err != nil {
		return nil, err
	}

	commentary := false
	if a.narrator != nil {
		if text, ok := a.commentary(ctx, log, res); ok {
			artifacts = append(artifacts, archive.Artifact{Name: ArtifactCommentary, Data: []byte(text)})
			commentary = true
		}
	}

	dir := path.Join(a.cfg.Output.Prefix, fmt.Sprintf("%s-%s", started.UTC().Format(core.DateLayout), runID))
	written, err := archive.Publish(ctx, a.storage, dir, artifacts)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		for _, art := range artifacts {
			a.metrics.RecordArtifact(art.Name)
		}
	}

	return &RunSummary{
		RunID:      runID,
		Dir:        dir,
		Artifacts:  written,
		Started:    started,
		Result:     res,
		Commentary: commentary,
	}, nil
}

func (a *App) params(start time.Time) analysis.Params {
	ac := a.cfg.Analysis
	return analysis.Params{
		Indicator: indicator.Params{
			ShortMA:          ac.ShortMA,
			LongMA:           ac.LongMA,
			RSIPeriod:        ac.RSIPeriod,
			VolatilityWindow: ac.VolatilityWindow,
			BollingerPeriod:  ac.BollingerPeriod,
			BollingerK:       ac.BollingerK,
			RSIEpsilon:       ac.RSIEpsilon,
		},
		TrendWindow:   ac.TrendWindow,
		AnalysisStart: start,
		PeriodLabel:   ac.PeriodLabel,
	}
}

// render builds the deterministic artifacts: report, charts and summary.
func (a *App) render(res *analysis.Result) ([]archive.Artifact, error) {
	opts := a.chartOpts
	opts.Period = res.Summary().Period

	ca := chart.Asset{Label: res.A.Label, Name: res.A.Name, Series: res.A.Indicators}
	cb := chart.Asset{Label: res.B.Label, Name: res.B.Name, Series: res.B.Indicators}

	overview, err := chart.RenderOverview(ca, cb, opts)
	if err != nil {
		return nil, renderErr(ArtifactOverview, err)
	}
	technical, err := chart.RenderTechnical(ca, cb, opts)
	if err != nil {
		return nil, renderErr(ArtifactTechnical, err)
	}
	summary, err := res.JSON()
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	return []archive.Artifact{
		{Name: ArtifactInsights, Data: []byte(res.Report.String() + "\n")},
		{Name: ArtifactOverview, Data: overview},
		{Name: ArtifactTechnical, Data: technical},
		{Name: ArtifactSummary, Data: summary},
	}, nil
}

func renderErr(name string, err error) error {
	if errors.Is(err, core.ErrRenderFailed) {
		return err
	}
	return core.WrapError(core.ErrRenderFailed, fmt.Errorf("%s: %w", name, err))
}

// commentary never fails the run.
func (a *App) commentary(ctx context.Context, log *zap.Logger, res *analysis.Result) (string, bool) {
	provider := a.narrator.Provider()
	text, err := a.narrator.Commentary(ctx, res.Report.String())
	if err != nil {
		log.Warn("commentary skipped", zap.String("provider", provider), zap.Error(err))
		if a.metrics != nil {
			a.metrics.RecordCommentary(provider, metrics.StatusFailure)
		}
		return "", false
	}
	if a.metrics != nil {
		a.metrics.RecordCommentary(provider, metrics.StatusSuccess)
	}
	return text, true
}

// announce notifies every channel of a published run. Failures are logged
// and counted only: the artifacts are already in place.
func (a *App) announce(ctx context.Context, log *zap.Logger, sum *RunSummary) {
	if a.notifiers.Len() == 0 {
		return
	}
	n := notifier.Notice{
		RunID:       sum.RunID,
		Title:       sum.Result.Report.Title,
		Dir:         sum.Dir,
		Artifacts:   sum.Artifacts,
		GeneratedAt: sum.Finished,
	}
	if s, ok := sum.Result.Report.Section(insight.HeadingOutlook); ok {
		n.Outlook = s.Lines
	}
	if s, ok := sum.Result.Report.Section(insight.HeadingRecommendations); ok {
		n.Recommendations = s.Lines
	}

	errs := a.notifiers.NotifyAll(ctx, n)
	for _, name := range a.notifiers.Names() {
		status := metrics.StatusSuccess
		if err, failed := errs[name]; failed {
			status = metrics.StatusFailure
			log.Warn("notification failed", zap.String("notifier", name), zap.Error(err))
		}
		if a.metrics != nil {
			a.metrics.RecordNotification(name, status)
		}
	}
}

func (a *App) recordResult(res *analysis.Result) {
	if a.metrics == nil {
		return
	}
	for _, leg := range []analysis.Leg{res.A, res.B} {
		a.metrics.RecordTrend(leg.Label, trendLabel(leg.Trend))
	}
	a.metrics.RecordCorrelation(res.Cross.Correlation.Computed())
}

func trendLabel(r trend.Result) string {
	if r.Kind != trend.KindClassified {
		return r.Kind.String()
	}
	return string(r.Direction)
}

func (a *App) recordRun(log *zap.Logger, status string, started, finished time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordRun(status, finished.Sub(started), finished)
	if file := a.cfg.Metrics.Textfile; file != "" {
		if err := a.metrics.WriteTextfile(file); err != nil {
			log.Warn("writing metrics textfile failed", zap.String("path", file), zap.Error(err))
		}
	}
}

// GetStats returns application statistics
func (a *App) GetStats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"runs":       a.runs,
		"failed":     a.failed,
		"collectors": a.collectors.Names(),
		"commentary": a.narrator != nil,
		"notifiers":  a.notifiers.Names(),
	}
	if a.lastRun != nil {
		stats["last_run_id"] = a.lastRun.RunID
		stats["last_run_dir"] = a.lastRun.Dir
	}
	return stats
}
