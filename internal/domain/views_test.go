package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lahoreSubset() Dataset {
	return Dataset{
		NewRoadRecord("Lahore", "Mall Road", Score(0.75), 31.56, 74.35),
		NewRoadRecord("Lahore", "Canal Road", Score(0.45), 31.52, 74.30),
		NewRoadRecord("Lahore", "Jail Road", Score(0.25), 31.54, 74.33),
		NewRoadRecord("Lahore", "Ferozepur Road", Score(0.62), 31.50, 74.32),
	}
}

func TestTopN(t *testing.T) {
	t.Run("sorted descending and truncated", func(t *testing.T) {
		rows := TopN(lahoreSubset(), 3)

		require.Len(t, rows, 3)
		assert.Equal(t, "Mall Road", rows[0].Road)
		assert.Equal(t, "Ferozepur Road", rows[1].Road)
		assert.Equal(t, "Canal Road", rows[2].Road)
	})

	t.Run("subset smaller than n returns all rows", func(t *testing.T) {
		rows := TopN(lahoreSubset(), 10)
		assert.Len(t, rows, 4)
	})

	t.Run("percentage display", func(t *testing.T) {
		subset := Dataset{NewRoadRecord("Lahore", "Mall Road", Score(0.734), 31.56, 74.35)}
		rows := TopN(subset, 10)

		require.Len(t, rows, 1)
		assert.Equal(t, Score(73.4), rows[0].RiskPercent)
		assert.Equal(t, "73.4%", rows[0].RiskDisplay)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		subset := Dataset{
			NewRoadRecord("Lahore", "First Road", Score(0.5), 31.50, 74.30),
			NewRoadRecord("Lahore", "Second Road", Score(0.5), 31.51, 74.31),
		}
		rows := TopN(subset, 10)

		require.Len(t, rows, 2)
		assert.Equal(t, "First Road", rows[0].Road)
		assert.Equal(t, "Second Road", rows[1].Road)
		assert.Equal(t, CategoryMedium, rows[0].Category)
		assert.Equal(t, CategoryMedium, rows[1].Category)
	})

	t.Run("missing scores sort last", func(t *testing.T) {
		subset := Dataset{
			NewRoadRecord("Lahore", "Bad Data Road", ParseScore("abc"), 31.50, 74.30),
			NewRoadRecord("Lahore", "Mall Road", Score(0.75), 31.56, 74.35),
		}
		rows := TopN(subset, 10)

		require.Len(t, rows, 2)
		assert.Equal(t, "Mall Road", rows[0].Road)
		assert.Equal(t, "Bad Data Road", rows[1].Road)
		assert.Equal(t, "n/a", rows[1].RiskDisplay)
	})

	t.Run("does not reorder the input subset", func(t *testing.T) {
		subset := lahoreSubset()
		before := make(Dataset, len(subset))
		copy(before, subset)

		TopN(subset, 2)

		assert.Empty(t, cmp.Diff(before, subset))
	})

	t.Run("empty subset", func(t *testing.T) {
		assert.Empty(t, TopN(nil, 10))
	})
}

func TestPartitionByCategory(t *testing.T) {
	subset := lahoreSubset()
	p := PartitionByCategory(subset)

	t.Run("buckets are a partition of the subset", func(t *testing.T) {
		assert.Equal(t, len(subset), len(p.High)+len(p.Medium)+len(p.Low))

		seen := map[string]int{}
		for _, rows := range [][]CategoryRow{p.High, p.Medium, p.Low} {
			for _, r := range rows {
				seen[r.Road]++
			}
		}
		for i := range subset {
			assert.Equal(t, 1, seen[subset[i].RoadName], "record %q must appear in exactly one bucket", subset[i].RoadName)
		}
	})

	t.Run("bucket membership matches categories", func(t *testing.T) {
		require.Len(t, p.High, 2)
		assert.Equal(t, "Mall Road", p.High[0].Road)
		assert.Equal(t, "Ferozepur Road", p.High[1].Road)
		require.Len(t, p.Medium, 1)
		assert.Equal(t, "Canal Road", p.Medium[0].Road)
		require.Len(t, p.Low, 1)
		assert.Equal(t, "Jail Road", p.Low[0].Road)
	})

	t.Run("missing score lands in Low bucket", func(t *testing.T) {
		withBad := append(Dataset{}, subset...)
		withBad = append(withBad, NewRoadRecord("Lahore", "Bad Data Road", ParseScore("x"), 31.5, 74.3))

		got := PartitionByCategory(withBad)
		require.Len(t, got.Low, 2)
		assert.Equal(t, "Bad Data Road", got.Low[1].Road)
	})
}

func TestBuildMapView(t *testing.T) {
	t.Run("center is the coordinate mean", func(t *testing.T) {
		subset := Dataset{
			NewRoadRecord("Lahore", "Mall Road", Score(0.75), 31.0, 74.0),
			NewRoadRecord("Lahore", "Canal Road", Score(0.45), 33.0, 76.0),
		}
		view := BuildMapView(subset)

		assert.InDelta(t, 32.0, view.Center.Lat, 1e-9)
		assert.InDelta(t, 75.0, view.Center.Lon, 1e-9)
		assert.Equal(t, 12, view.Zoom)
	})

	t.Run("one marker per record with color and label", func(t *testing.T) {
		view := BuildMapView(lahoreSubset())

		require.Len(t, view.Markers, 4)
		assert.Equal(t, "red", view.Markers[0].Color)
		assert.Equal(t, "Mall Road – Risk Score: 0.75", view.Markers[0].Label)
		assert.Equal(t, "orange", view.Markers[1].Color)
		assert.Equal(t, "green", view.Markers[2].Color)
	})
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "red", CategoryColor(CategoryHigh))
	assert.Equal(t, "orange", CategoryColor(CategoryMedium))
	assert.Equal(t, "green", CategoryColor(CategoryLow))
	assert.Equal(t, "blue", CategoryColor(Category("Unknown")))
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		score string
		want  string
	}{
		{"0.734", "73.4%"},
		{"0.75", "75.0%"},
		{"1", "100.0%"},
		{"0", "0.0%"},
		{"abc", "n/a"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s renders %s", tt.score, tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(ParseScore(tt.score)))
		})
	}
}
