package cmd

import (
	"github.com/spf13/cobra"

	"github.com/roadwatch/road-risk-dashboard/internal/adapter/kafka"
	"github.com/roadwatch/road-risk-dashboard/internal/dataset"
	"github.com/roadwatch/road-risk-dashboard/internal/observability"
)

// exportBatchSize bounds a single WriteMessages call so very large CSVs
// don't blow the broker's max request size.
const exportBatchSize = 100

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish classified road records to Kafka",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	data, stats, err := dataset.LoadFile(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load roads csv", "error", err)
		return err
	}
	if stats.InvalidScores > 0 {
		logger.Warn("some risk scores could not be parsed; affected rows export as Low",
			"invalid_rows", stats.InvalidScores)
	}

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close kafka writer", "error", err)
		}
	}()

	ctx := cmd.Context()
	exported := 0
	for start := 0; start < len(data); start += exportBatchSize {
		end := min(start+exportBatchSize, len(data))
		if err := writer.PublishBatch(ctx, data[start:end]); err != nil {
			logger.Error("failed to publish batch",
				"start", start, "size", end-start, "error", err)
			return err
		}
		exported += end - start
		metrics.RecordsExported.Add(float64(end - start))
	}

	logger.Info("export complete",
		"records", exported, "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return nil
}
