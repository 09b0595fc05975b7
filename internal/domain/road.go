package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Classification thresholds for risk scores. Fixed, not configurable:
// downstream consumers (colors, tab grouping) assume exactly three buckets.
const (
	highThreshold   = 0.6
	mediumThreshold = 0.3
)

// Category is a risk bucket derived from a risk score. Values are produced
// only by Categorize so a record's category can never drift from its score.
type Category string

const (
	CategoryHigh   Category = "High"
	CategoryMedium Category = "Medium"
	CategoryLow    Category = "Low"
)

// Score is a road risk score, expected in [0,1] but not validated to that
// range. An unparseable source value is carried as NaN rather than rejecting
// the row; NaN marshals as JSON null.
type Score float64

// ParseScore coerces a CSV field to a Score, returning the NaN sentinel when
// the value is empty or not a number. Malformed scores must not abort a load.
func ParseScore(s string) Score {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score(math.NaN())
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Score(math.NaN())
	}
	return Score(v)
}

// IsMissing reports whether the score is the NaN sentinel for an
// unparseable source value.
func (s Score) IsMissing() bool {
	return math.IsNaN(float64(s))
}

// MarshalJSON encodes missing scores as null. encoding/json rejects NaN,
// and null is what consumers expect for an uncoercible value.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.IsMissing() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(s), 'g', -1, 64)), nil
}

// UnmarshalJSON decodes null back to the NaN sentinel.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse score: %w", err)
	}
	*s = Score(v)
	return nil
}

// Categorize maps a risk score to its category:
//
//	score >= 0.6        High
//	0.3 <= score < 0.6  Medium
//	score < 0.3         Low
//
// The branch is applied unconditionally to every score. A NaN score fails
// both comparisons and lands in Low; that fall-through matches the original
// data source's behavior and is relied on by consumers, so it is not
// special-cased here. Loaders count NaN rows separately as a diagnostic.
func Categorize(score Score) Category {
	switch {
	case float64(score) >= highThreshold:
		return CategoryHigh
	case float64(score) >= mediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoadRecord is one road segment with its classified risk. Records are
// created at load time and read-only afterwards.
type RoadRecord struct {
	ID           string   `json:"id"`
	City         string   `json:"city"`
	RoadName     string   `json:"road_name"`
	RiskScore    Score    `json:"risk_score"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	RiskCategory Category `json:"risk_category"`
}

// NewRoadRecord builds a classified record. RiskCategory is always assigned
// here from the score; nothing else sets it.
func NewRoadRecord(city, roadName string, score Score, lat, lon float64) RoadRecord {
	return RoadRecord{
		ID:           generateID(city, roadName, lat, lon),
		City:         city,
		RoadName:     roadName,
		RiskScore:    score,
		Latitude:     lat,
		Longitude:    lon,
		RiskCategory: Categorize(score),
	}
}

// generateID produces a deterministic ID from the record's identifying
// fields, so re-exporting the same CSV yields the same keys downstream.
func generateID(city, roadName string, lat, lon float64) string {
	input := fmt.Sprintf("%s|%s|%.6f|%.6f", city, roadName, lat, lon)
	hash := sha256.Sum256([]byte(input))
	return "road-" + hex.EncodeToString(hash[:8])
}

// Dataset is the ordered collection of classified road records for one load.
// It is immutable after loading; all views are derived, non-owning slices.
type Dataset []RoadRecord

// Cities returns the sorted set of distinct city names in the dataset.
func (d Dataset) Cities() []string {
	seen := make(map[string]bool, len(d))
	var cities []string
	for i := range d {
		if !seen[d[i].City] {
			seen[d[i].City] = true
			cities = append(cities, d[i].City)
		}
	}
	sort.Strings(cities)
	return cities
}

// FilterByCity returns the records whose city matches exactly. An empty
// result is an expected outcome, not an error; filtering an already
// filtered subset by the same city is a no-op.
func (d Dataset) FilterByCity(city string) Dataset {
	var subset Dataset
	for i := range d {
		if d[i].City == city {
			subset = append(subset, d[i])
		}
	}
	return subset
}
