// Package gen produces demonstration roads CSVs. Generated coordinates
// are jittered around real city centers; scores are random. Replace the
// output with real accident statistics for production use.
package gen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/roadwatch/road-risk-dashboard/internal/domain"
)

// CityCenter names a city and the point its generated roads scatter around.
type CityCenter struct {
	Name   string
	Center domain.Geo
}

// DefaultCities are the demo cities, matching the dashboard's original
// demonstration dataset.
var DefaultCities = []CityCenter{
	{Name: "Lahore", Center: domain.Geo{Lat: 31.5204, Lon: 74.3587}},
	{Name: "Karachi", Center: domain.Geo{Lat: 24.8607, Lon: 67.0011}},
	{Name: "Islamabad", Center: domain.Geo{Lat: 33.6844, Lon: 73.0479}},
	{Name: "Rawalpindi", Center: domain.Geo{Lat: 33.5651, Lon: 73.0169}},
	{Name: "Faisalabad", Center: domain.Geo{Lat: 31.4504, Lon: 73.1350}},
	{Name: "Peshawar", Center: domain.Geo{Lat: 34.0151, Lon: 71.5249}},
}

// Options control generation. InvalidRate injects unparseable risk_score
// values ("N/A") at the given probability, for exercising the coercion
// diagnostics.
type Options struct {
	RoadsPerCity int
	InvalidRate  float64
	Seed         int64
}

// coordJitter spreads roads within roughly a city-sized box (~0.08° ≈ 9 km).
const coordJitter = 0.08

// WriteCSV generates a roads CSV for the given cities and returns the
// number of data rows written. Output is deterministic for a fixed seed.
func WriteCSV(w io.Writer, cities []CityCenter, opts Options) (int, error) {
	src := rand.NewSource(opts.Seed)
	rng := rand.New(src)
	fake := faker.NewWithSeed(src)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"city", "road_name", "risk_score", "latitude", "longitude"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for _, city := range cities {
		for range opts.RoadsPerCity {
			score := fmt.Sprintf("%.2f", rng.Float64())
			if opts.InvalidRate > 0 && rng.Float64() < opts.InvalidRate {
				score = "N/A"
			}

			row := []string{
				city.Name,
				fake.Address().StreetName(),
				score,
				fmt.Sprintf("%.4f", city.Center.Lat+(rng.Float64()*2-1)*coordJitter),
				fmt.Sprintf("%.4f", city.Center.Lon+(rng.Float64()*2-1)*coordJitter),
			}
			if err := cw.Write(row); err != nil {
				return rows, fmt.Errorf("write row: %w", err)
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}
