// Package dataset loads the roads CSV into an immutable domain.Dataset.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roadwatch/road-risk-dashboard/internal/domain"
)

// requiredColumns are the case-sensitive headers a roads CSV must carry.
// Extra columns are ignored.
var requiredColumns = []string{"city", "road_name", "risk_score", "latitude", "longitude"}

// Stats summarizes one load. InvalidScores counts rows whose risk_score
// could not be coerced and was carried as the NaN sentinel; those rows
// classify as Low, so the count is the only visible trace of bad data.
type Stats struct {
	Rows          int
	InvalidScores int
}

// LoadFile reads and classifies a roads CSV from disk. An unreadable file
// is fatal to the load; no partial dataset is returned.
func LoadFile(path string) (domain.Dataset, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open roads csv: %w", err)
	}
	defer f.Close()

	data, stats, err := Load(f)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, stats, nil
}

// Load parses roads CSV rows into classified records. Missing required
// columns fail the whole load; a malformed risk_score in a single row does
// not — it becomes NaN and is counted in Stats.
func Load(r io.Reader) (domain.Dataset, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, short ones skipped below

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read roads csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, Stats{}, fmt.Errorf("roads csv has no header row")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, Stats{}, fmt.Errorf("roads csv missing required columns: %s", strings.Join(missing, ", "))
	}

	var data domain.Dataset
	var stats Stats
	for _, row := range rows[1:] {
		score := domain.ParseScore(get(row, colIdx, "risk_score"))
		if score.IsMissing() {
			stats.InvalidScores++
		}

		data = append(data, domain.NewRoadRecord(
			get(row, colIdx, "city"),
			get(row, colIdx, "road_name"),
			score,
			parseFloatOrZero(get(row, colIdx, "latitude")),
			parseFloatOrZero(get(row, colIdx, "longitude")),
		))
		stats.Rows++
	}

	return data, stats, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseFloatOrZero parses a coordinate field, returning 0 on failure. Only
// risk_score gets the NaN sentinel treatment; coordinates default to zero.
func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
