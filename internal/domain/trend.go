package domain

import (
	"math"
	"math/rand"
)

// TrendPoint is one day of the synthetic high-risk trend series.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TrendSeries is a demonstration time series of high-risk segment counts.
// The counts are not historical data: they are Poisson draws from a
// deterministically seeded source, parameterized by the subset's mean risk
// score, so repeated requests for the same city render the same chart.
type TrendSeries struct {
	Base   int          `json:"base"`
	Points []TrendPoint `json:"points"`
}

// BuildTrendSeries generates a trend series of the given length ending
// today. The Poisson mean is max(round(mean score × 10), 1); missing (NaN)
// scores are skipped when averaging, matching how the mean behaved in the
// source data tooling.
func BuildTrendSeries(subset Dataset, days int, seed int64) TrendSeries {
	base := int(math.Round(meanScore(subset) * 10))
	if base < 1 {
		base = 1
	}

	rng := rand.New(rand.NewSource(seed))
	today := clock.Now()

	points := make([]TrendPoint, days)
	for i := range points {
		day := today.AddDate(0, 0, i-(days-1))
		points[i] = TrendPoint{
			Date:  day.Format("2006-01-02"),
			Count: poisson(rng, float64(base)),
		}
	}

	return TrendSeries{Base: base, Points: points}
}

// meanScore averages the subset's parseable scores. Returns 0 when no row
// has a usable score.
func meanScore(subset Dataset) float64 {
	var sum float64
	var n int
	for i := range subset {
		if subset[i].RiskScore.IsMissing() {
			continue
		}
		sum += float64(subset[i].RiskScore)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// poisson draws one sample from Poisson(lambda) using Knuth's product
// method. Fine for the small lambdas a mean score can produce (≤ ~10).
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
