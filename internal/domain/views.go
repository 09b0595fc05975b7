package domain

import (
	"fmt"
	"sort"
)

// RankedRoad is one row of the top-risky-roads table. RiskPercent is the
// score scaled to [0,100]; it is a display field derived per view, never
// stored back on the record.
type RankedRoad struct {
	Road        string   `json:"road"`
	RiskScore   Score    `json:"risk_score"`
	RiskPercent Score    `json:"risk_percentage"`
	RiskDisplay string   `json:"risk_display"` // e.g. "73.4%", shown under "Risk (%)"
	Category    Category `json:"category"`
}

// TopN ranks a subset by risk score descending and returns at most n rows.
// The sort is stable: rows with equal scores keep their input order. Missing
// (NaN) scores sort after every real score. A subset smaller than n yields
// exactly len(subset) rows.
func TopN(subset Dataset, n int) []RankedRoad {
	ranked := make(Dataset, len(subset))
	copy(ranked, subset)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].RiskScore, ranked[j].RiskScore
		if a.IsMissing() {
			return false
		}
		if b.IsMissing() {
			return true
		}
		return a > b
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	rows := make([]RankedRoad, len(ranked))
	for i := range ranked {
		rows[i] = RankedRoad{
			Road:        ranked[i].RoadName,
			RiskScore:   ranked[i].RiskScore,
			RiskPercent: ranked[i].RiskScore * 100,
			RiskDisplay: FormatPercent(ranked[i].RiskScore),
			Category:    ranked[i].RiskCategory,
		}
	}
	return rows
}

// FormatPercent renders a score as a one-decimal percentage, e.g. 0.734 as
// "73.4%". Missing scores render as "n/a".
func FormatPercent(s Score) string {
	if s.IsMissing() {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(s)*100)
}

// CategoryRow is one row of a per-category tab listing.
type CategoryRow struct {
	Road  string `json:"road"`
	Score Score  `json:"score"`
}

// Partition holds the per-category listings for one city subset. Every
// record of the subset appears in exactly one bucket, in input order.
type Partition struct {
	High   []CategoryRow `json:"high"`
	Medium []CategoryRow `json:"medium"`
	Low    []CategoryRow `json:"low"`
}

// PartitionByCategory splits a subset into the three category buckets,
// preserving relative order within each.
func PartitionByCategory(subset Dataset) Partition {
	var p Partition
	for i := range subset {
		row := CategoryRow{Road: subset[i].RoadName, Score: subset[i].RiskScore}
		switch subset[i].RiskCategory {
		case CategoryHigh:
			p.High = append(p.High, row)
		case CategoryMedium:
			p.Medium = append(p.Medium, row)
		default:
			p.Low = append(p.Low, row)
		}
	}
	return p
}

// Marker is one plotted road segment: position, category color, and a
// popup label of the form "<road_name> – Risk Score: <score to 2 decimals>".
type Marker struct {
	Geo   Geo    `json:"geo"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// MapView is the display-ready map payload for one city: a center point
// (mean of the subset's coordinates), a default zoom, and one marker per
// record. Tile rendering is the consumer's job.
type MapView struct {
	Center  Geo      `json:"center"`
	Zoom    int      `json:"zoom"`
	Markers []Marker `json:"markers"`
}

const defaultZoom = 12

// BuildMapView computes the map payload for a non-empty subset. Callers
// must handle the empty-subset case before asking for a map.
func BuildMapView(subset Dataset) MapView {
	var sumLat, sumLon float64
	markers := make([]Marker, len(subset))
	for i := range subset {
		sumLat += subset[i].Latitude
		sumLon += subset[i].Longitude
		markers[i] = Marker{
			Geo:   Geo{Lat: subset[i].Latitude, Lon: subset[i].Longitude},
			Color: CategoryColor(subset[i].RiskCategory),
			Label: markerLabel(subset[i]),
		}
	}

	view := MapView{Zoom: defaultZoom, Markers: markers}
	if len(subset) > 0 {
		view.Center = Geo{
			Lat: sumLat / float64(len(subset)),
			Lon: sumLon / float64(len(subset)),
		}
	}
	return view
}

// CategoryColor maps a category to its marker color. Unknown categories
// (which Categorize never produces) fall back to blue.
func CategoryColor(c Category) string {
	switch c {
	case CategoryHigh:
		return "red"
	case CategoryMedium:
		return "orange"
	case CategoryLow:
		return "green"
	default:
		return "blue"
	}
}

func markerLabel(r RoadRecord) string {
	return fmt.Sprintf("%s – Risk Score: %.2f", r.RoadName, float64(r.RiskScore))
}
