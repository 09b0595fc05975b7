// Package domain models road accident-risk data and the views derived
// from it.
//
// # Data Source
//
// Records come from a roads CSV with one row per road segment. Required
// columns (case-sensitive): city, road_name, risk_score, latitude,
// longitude. Extra columns are ignored. The risk score is a numeric
// measure of accident likelihood for the segment, expected in [0,1] but
// not validated to that range.
//
// # Score Coercion
//
// risk_score values that cannot be parsed as a float become the NaN
// sentinel instead of failing the load. NaN is deliberate local recovery:
// one malformed row must not abort a whole dataset. NaN scores marshal as
// JSON null.
//
// # Risk Classification
//
// Every record gets a category from the fixed thresholds:
//
//	score >= 0.6        High   (red)
//	0.3 <= score < 0.6  Medium (orange)
//	score < 0.3         Low    (green)
//
// The three-way branch is applied to every row, parseable or not. A NaN
// score fails both comparisons and falls through to Low; the source data
// tooling behaved exactly this way, so the fall-through is preserved
// rather than special-cased. Loaders report a count of coerced rows so
// the silent miscategorization is at least visible.
//
// # Derived Views
//
// All views are pure functions over an immutable Dataset:
//
//   - FilterByCity: exact-match city subset; empty is an expected outcome.
//   - TopN: stable descending sort by score (ties keep input order, NaN
//     last), truncated to n, with a derived percentage display field.
//   - PartitionByCategory: three disjoint, order-preserving buckets whose
//     union is the subset.
//   - BuildMapView: mean-coordinate center plus one colored, labeled
//     marker per record.
//   - BuildTrendSeries: seeded synthetic Poisson counts for the last N
//     days, for demonstration charts only.
package domain
