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
	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/logger"
)

var (
	analyzeStart  string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the analysis once and publish its artifacts",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "analysis start date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "local output directory")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if analyzeStart != "" {
		if _, err := core.ParseDay(analyzeStart); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		cfg.Analysis.Start = analyzeStart
	}
	if analyzeOutput != "" {
		cfg.Output.Type = "localfs"
		cfg.Output.Path = analyzeOutput
	}

	a, err := app.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := a.RunOnce(ctx)
	if err != nil {
		return err
	}

	log.Info("analysis published",
		zap.String("run_id", sum.RunID),
		zap.String("dir", sum.Dir),
		zap.Strings("artifacts", sum.Artifacts),
	)
	fmt.Fprintln(cmd.OutOrStdout(), sum.Result.Report.String())
	return nil
}
