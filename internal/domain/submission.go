package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FactorSubmission is the flat JSON structure published by the dashboard
// backend. One submission carries the raw inputs for all three factors of a
// single location/date observation.
type FactorSubmission struct {
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Region       string  `json:"region,omitempty"`
	HazardType   string  `json:"hazard_type"`
	DateObserved string  `json:"date_observed"` // ISO date, e.g. "2026-03-14"

	// H factor: terrain and trigger measurements.
	SlopeDeg   float64 `json:"slope_deg"`
	Curvature  float64 `json:"curvature"`
	LithClass  int     `json:"lith_class"`
	RainExceed float64 `json:"rain_exceed"`

	// L factor: aggregated lore evidence.
	LoreSignal float64 `json:"lore_signal"`

	// V factor: survey scores.
	Exposure  float64 `json:"exposure"`
	Fragility float64 `json:"fragility"`

	// Optional overrides for the default per-factor uncertainty.
	SigmaH *float64 `json:"sigma_H,omitempty"`
	SigmaL *float64 `json:"sigma_L,omitempty"`
	SigmaV *float64 `json:"sigma_V,omitempty"`
}

// RawSubmission represents an unprocessed message from the source topic.
type RawSubmission struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ParseRawSubmission deserializes a RawSubmission's value into a
// FactorSubmission. An empty hazard type defaults to "landslide", the
// dashboard's primary hazard; an empty observation date falls back to the
// message timestamp so record identity stays stable across replays.
func ParseRawSubmission(raw RawSubmission) (FactorSubmission, error) {
	var sub FactorSubmission
	if err := json.Unmarshal(raw.Value, &sub); err != nil {
		return FactorSubmission{}, fmt.Errorf("parse raw submission: %w", err)
	}

	if sub.HazardType == "" {
		sub.HazardType = "landslide"
	}
	if sub.DateObserved == "" && !raw.Timestamp.IsZero() {
		sub.DateObserved = raw.Timestamp.UTC().Format("2006-01-02")
	}

	return sub, nil
}
