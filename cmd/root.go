package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadwatch/road-risk-dashboard/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "roadrisk",
	Short: "Road accident-risk dashboard service",
	Long: `roadrisk loads a roads CSV, classifies every segment into High, Medium or
Low risk, and serves per-city dashboard views (map markers, top risky roads,
trend series, category listings) as a JSON API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults + ROADRISK_* env if unset)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
