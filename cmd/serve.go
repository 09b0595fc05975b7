package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/roadwatch/road-risk-dashboard/internal/adapter/http"
	"github.com/roadwatch/road-risk-dashboard/internal/dashboard"
	"github.com/roadwatch/road-risk-dashboard/internal/dataset"
	"github.com/roadwatch/road-risk-dashboard/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the roads CSV and serve the dashboard API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// One-time load: unreadable file or missing columns is fatal, and the
	// dataset is read-only for the rest of the process.
	data, stats, err := dataset.LoadFile(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load roads csv", "error", err)
		return err
	}

	metrics.DatasetRows.Set(float64(stats.Rows))
	metrics.InvalidScores.Set(float64(stats.InvalidScores))
	if stats.InvalidScores > 0 {
		logger.Warn("some risk scores could not be parsed; affected rows classify as Low",
			"invalid_rows", stats.InvalidScores)
	}
	logger.Info("dataset loaded",
		"path", cfg.DataPath, "rows", stats.Rows, "cities", len(data.Cities()))

	svc := dashboard.New(data, dashboard.Options{
		TopN:      cfg.TopN,
		TrendDays: cfg.TrendDays,
		TrendSeed: cfg.TrendSeed,
		CacheSize: cfg.CacheSize,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
