package domain

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/georiskmod/risk-service/internal/risk"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// Location holds the submitted place fields and any geocoding enrichment.
type Location struct {
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`

	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"
}

// RiskRecord is the complete computed output for one factor submission.
// The embedded risk.Result carries the factor scores, gated risk score,
// classification, uncertainty band, and the config echo.
type RiskRecord struct {
	ID           string   `json:"id"`
	HazardType   string   `json:"hazard_type"`
	Geo          Geo      `json:"geo,omitempty"`
	Location     Location `json:"location,omitempty"`
	DateObserved string   `json:"date_observed,omitempty"`

	risk.Result

	RawPayload []byte    `json:"-"`
	ComputedAt time.Time `json:"computed_at"`
}

// BuildRiskRecord derives the three factor scores from a submission, runs
// the gated aggregation with Monte Carlo uncertainty, and assembles the
// record. The record ID also seeds the sampler, so rebuilding the same
// submission reproduces the uncertainty fields exactly.
func BuildRiskRecord(ctx context.Context, sub FactorSubmission, cfg risk.Config) (RiskRecord, error) {
	// Default before the ID is derived so the record's hazard type and its
	// ID prefix always agree.
	if sub.HazardType == "" {
		sub.HazardType = cfg.HazardType
	}

	lithErod, err := risk.LithologyErodibility(sub.LithClass)
	if err != nil {
		return RiskRecord{}, err
	}

	h, err := risk.ComputeH(sub.SlopeDeg, sub.Curvature, lithErod, sub.RainExceed)
	if err != nil {
		return RiskRecord{}, err
	}
	l, err := risk.ComputeL(sub.LoreSignal)
	if err != nil {
		return RiskRecord{}, err
	}
	v, err := risk.ComputeV(sub.Exposure, sub.Fragility)
	if err != nil {
		return RiskRecord{}, err
	}

	cfg.HazardType = sub.HazardType

	id, seed := generateID(sub.HazardType, sub.Latitude, sub.Longitude, sub.DateObserved)

	params := risk.DefaultUncertaintyParams()
	params.Seed = seed
	if sub.SigmaH != nil {
		params.SigmaH = *sub.SigmaH
	}
	if sub.SigmaL != nil {
		params.SigmaL = *sub.SigmaL
	}
	if sub.SigmaV != nil {
		params.SigmaV = *sub.SigmaV
	}

	result, err := risk.Calculate(ctx, h, l, v, cfg, &params)
	if err != nil {
		return RiskRecord{}, err
	}

	return RiskRecord{
		ID:           id,
		HazardType:   cfg.HazardType,
		Geo:          Geo{Lat: sub.Latitude, Lon: sub.Longitude},
		Location:     Location{Name: sub.LocationName, Region: sub.Region},
		DateObserved: sub.DateObserved,
		Result:       result,
		ComputedAt:   clock.Now(),
	}, nil
}

// generateID produces a deterministic ID and sampler seed from the record's
// key fields. Deterministic IDs enable idempotent upserts and replay safety;
// deriving the seed from the same hash makes the uncertainty band replay-
// stable too.
func generateID(hazardType string, lat, lon float64, date string) (string, uint64) {
	input := fmt.Sprintf("%s|%.4f|%.4f|%s", hazardType, lat, lon, date)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	seed := binary.BigEndian.Uint64(hash[8:16])
	if hazardType == "" {
		return short, seed
	}
	return hazardType + "-" + short, seed
}
