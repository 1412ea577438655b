// Package domain models geohazard factor submissions and computed risk
// records.
//
// # Data Source
//
// Factor submissions originate from the field-data dashboard: surveyors
// enter terrain measurements (H factor), historical and anecdotal evidence
// (L factor), and exposure/fragility assessments (V factor) for a location.
// The dashboard backend publishes each submission as flat JSON to the Kafka
// source topic; this service derives the three normalized factor scores,
// runs the Borromean aggregation, and emits a complete risk record.
//
// # Submission Conventions
//
// Location:
//
//	latitude/longitude are WGS-84 decimal degrees. A submission may carry
//	only a place name; geocoding enrichment then resolves coordinates.
//
// H factor inputs:
//
//	slope_deg    — slope angle in degrees, [0,90]
//	curvature    — terrain curvature in 1/m; negative is concave
//	lith_class   — lithology class 1 (hardest) to 5 (most erodible)
//	rain_exceed  — rainfall exceedance probability, [0,1]
//
// L factor input:
//
//	lore_signal  — aggregated lore evidence score from the story pipeline, [0,1]
//
// V factor inputs:
//
//	exposure, fragility — [0,1] survey scores, blended 0.7/0.3
//
// Optional sigma_H/sigma_L/sigma_V override the default per-factor
// uncertainty; date_observed is an ISO date string used for record identity,
// not for computation.
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of hazard|lat|lon|date. This
// enables idempotent upserts downstream and replay safety without
// distributed coordination; the same hash also seeds the Monte Carlo
// sampler so a replayed submission reproduces its uncertainty band
// bit-for-bit. See [generateID].
package domain
