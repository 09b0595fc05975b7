package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roadwatch/road-risk-dashboard/internal/dataset"
	"github.com/roadwatch/road-risk-dashboard/internal/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [roads.csv]",
	Short: "Run data-integrity checks on a roads CSV",
	Long: `validate reports structural problems and coerced values in a roads CSV:
missing required columns, risk scores that fall back to NaN (and therefore
classify as Low), scores outside the conventional [0,1] range, and zero
coordinates. Exits non-zero when any check fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.DataPath
	}

	fmt.Printf("=== Road Risk Data Validation: %s ===\n\n", path)

	data, stats, loadErr := dataset.LoadFile(path)

	phases := []*phase{
		validateStructure(loadErr),
		validateScores(path, stats),
		validateCoordinates(data),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-34s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if loadErr == nil {
		printSummary(data, stats)
	}

	if !allPassed {
		fmt.Println("\nValidation FAILED.")
		os.Exit(1)
	}
	fmt.Println("\nAll validations passed.")
	return nil
}

func validateStructure(loadErr error) *phase {
	p := &phase{name: "Structure (columns, readability)"}
	if loadErr != nil {
		p.errorf("%v", loadErr)
	}
	return p
}

// validateScores re-reads the CSV to attach line numbers to the rows the
// loader coerced, and flags values outside the conventional score range.
func validateScores(path string, stats dataset.Stats) *phase {
	p := &phase{name: "Score coercion"}

	f, err := os.Open(path)
	if err != nil {
		return p // structure phase already reported it
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		return p
	}

	scoreIdx := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == "risk_score" {
			scoreIdx = i
		}
	}
	if scoreIdx < 0 {
		return p
	}

	for i, row := range rows[1:] {
		if scoreIdx >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[scoreIdx])
		score := domain.ParseScore(raw)
		switch {
		case score.IsMissing():
			p.errorf("line %d: risk_score %q is not numeric; row classifies as Low", i+2, raw)
		case float64(score) < 0 || float64(score) > 1:
			p.errorf("line %d: risk_score %v outside expected [0,1] range", i+2, float64(score))
		}
	}

	if len(p.errors) > 0 && stats.InvalidScores == 0 {
		// Out-of-range values alone: the loader accepts them, this tool flags them.
		p.name = "Score coercion (range warnings)"
	}
	return p
}

func validateCoordinates(data domain.Dataset) *phase {
	p := &phase{name: "Coordinates"}
	for i := range data {
		if data[i].Latitude == 0 && data[i].Longitude == 0 {
			p.errorf("row %d (%s, %s): coordinates are both zero", i+1, data[i].City, data[i].RoadName)
		}
	}
	return p
}

func printSummary(data domain.Dataset, stats dataset.Stats) {
	fmt.Printf("\nRows: %d, coerced scores: %d, cities: %d\n",
		stats.Rows, stats.InvalidScores, len(data.Cities()))

	for _, city := range data.Cities() {
		subset := data.FilterByCity(city)
		part := domain.PartitionByCategory(subset)
		fmt.Printf("  %-14s rows=%-3d high=%-3d medium=%-3d low=%d\n",
			city, len(subset), len(part.High), len(part.Medium), len(part.Low))
	}
}
