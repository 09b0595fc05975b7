package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roadwatch/road-risk-dashboard/internal/gen"
)

var (
	genOut          string
	genRoadsPerCity int
	genInvalidRate  float64
	genSeed         int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a demonstration roads CSV",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOut, "out", "data/roads_data.csv", "output CSV path")
	generateCmd.Flags().IntVar(&genRoadsPerCity, "roads-per-city", 20, "roads generated per city")
	generateCmd.Flags().Float64Var(&genInvalidRate, "invalid-rate", 0, "probability a row gets an unparseable risk_score")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "random seed")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(filepath.Dir(genOut), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(genOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	rows, err := gen.WriteCSV(f, gen.DefaultCities, gen.Options{
		RoadsPerCity: genRoadsPerCity,
		InvalidRate:  genInvalidRate,
		Seed:         genSeed,
	})
	if err != nil {
		return fmt.Errorf("generate roads csv: %w", err)
	}

	fmt.Printf("Wrote %d roads across %d cities to %s\n", rows, len(gen.DefaultCities), genOut)
	return nil
}
