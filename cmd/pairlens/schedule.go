package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/app"
	"github.com/newthinker/pairlens/internal/logger"
	"github.com/newthinker/pairlens/internal/scheduler"
)

var runOnStart bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the analysis on the configured cron schedule",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run once immediately before waiting for the schedule")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if cfg.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is not set")
	}

	a, err := app.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func(ctx context.Context) error {
		_, err := a.RunOnce(ctx)
		return err
	}

	s := scheduler.New(log)
	if err := s.Register("analyze", cfg.Schedule.Cron, job); err != nil {
		return err
	}

	if reg := a.Metrics(); reg != nil && cfg.Metrics.Listen != "" {
		go func() {
			log.Info("metrics listener started", zap.String("addr", cfg.Metrics.Listen))
			if err := reg.Serve(ctx, cfg.Metrics.Listen, log); err != nil {
				log.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	if runOnStart {
		if err := job(ctx); err != nil {
			log.Error("initial run failed", zap.Error(err))
		}
	}

	if next, ok := s.Next("analyze"); ok {
		log.Info("waiting for schedule", zap.String("cron", cfg.Schedule.Cron), zap.Time("next", next))
	}
	return s.Run(ctx)
}
