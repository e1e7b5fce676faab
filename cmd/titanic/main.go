// Command titanic fits the survival pipeline on the training passengers and
// writes the predictions for the holdout passengers.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/askiada/go-titanic/internal/app"
	"github.com/askiada/go-titanic/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration (defaults only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Logging, os.Stderr).With(slog.String("run_id", uuid.New().String()))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.New(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("Run failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}

	logger.Info("Run complete",
		slog.Int("train_rows", report.TrainRows),
		slog.Int("test_rows", report.TestRows),
		slog.Float64("train_accuracy", report.TrainAccuracy),
		slog.String("submission", report.Submission))
}
