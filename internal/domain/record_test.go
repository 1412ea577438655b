package domain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georiskmod/risk-service/internal/risk"
)

func testSubmission() FactorSubmission {
	return FactorSubmission{
		LocationName: "Ridge Road",
		Latitude:     46.21,
		Longitude:    7.36,
		Region:       "Valais",
		HazardType:   "landslide",
		DateObserved: "2026-03-14",

		SlopeDeg:   35.0,
		Curvature:  -0.5,
		LithClass:  3,
		RainExceed: 0.8,

		LoreSignal: 0.6,

		Exposure:  0.75,
		Fragility: 0.60,
	}
}

func TestBuildRiskRecord(t *testing.T) {
	frozen := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	ctx := context.Background()

	t.Run("assembles a complete record", func(t *testing.T) {
		record, err := BuildRiskRecord(ctx, testSubmission(), risk.DefaultConfig())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(record.ID, "landslide-"))
		assert.Equal(t, "landslide", record.HazardType)
		assert.Equal(t, 46.21, record.Geo.Lat)
		assert.Equal(t, 7.36, record.Geo.Lon)
		assert.Equal(t, "Ridge Road", record.Location.Name)
		assert.Equal(t, "Valais", record.Location.Region)
		assert.Equal(t, "2026-03-14", record.DateObserved)
		assert.Equal(t, frozen, record.ComputedAt)

		// Scores live in the unit interval and the classification matches.
		assert.GreaterOrEqual(t, record.HScore, 0.0)
		assert.LessOrEqual(t, record.HScore, 1.0)
		assert.Equal(t, risk.Classify(record.RScore), record.RiskLevel)
		require.NotNil(t, record.RStd)
		require.NotNil(t, record.RP05)
		require.NotNil(t, record.RP95)
	})

	t.Run("deterministic across replays", func(t *testing.T) {
		r1, err := BuildRiskRecord(ctx, testSubmission(), risk.DefaultConfig())
		require.NoError(t, err)
		r2, err := BuildRiskRecord(ctx, testSubmission(), risk.DefaultConfig())
		require.NoError(t, err)

		if diff := cmp.Diff(r1, r2); diff != "" {
			t.Errorf("replayed record differs (-first +second):\n%s", diff)
		}
	})

	t.Run("gate consistency", func(t *testing.T) {
		sub := testSubmission()
		sub.LoreSignal = 0.1 // below tau_L

		record, err := BuildRiskRecord(ctx, sub, risk.DefaultConfig())
		require.NoError(t, err)
		assert.False(t, record.GatePassed)
		assert.Equal(t, 0.0, record.RScore)
		assert.Equal(t, risk.LevelLow, record.RiskLevel)
	})

	t.Run("sigma overrides reach the sampler", func(t *testing.T) {
		zero := 0.0
		sub := testSubmission()
		sub.SigmaH, sub.SigmaL, sub.SigmaV = &zero, &zero, &zero

		record, err := BuildRiskRecord(ctx, sub, risk.DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, record.RStd)
		assert.Equal(t, 0.0, *record.RStd)
		assert.Equal(t, record.RScore, *record.RP05)
		assert.Equal(t, record.RScore, *record.RP95)
	})

	t.Run("empty hazard type falls back to the config's", func(t *testing.T) {
		sub := testSubmission()
		sub.HazardType = ""

		record, err := BuildRiskRecord(ctx, sub, risk.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "landslide", record.HazardType)
		assert.True(t, strings.HasPrefix(record.ID, "landslide-"))

		// The fallback yields the same identity as the explicit label.
		explicit, err := BuildRiskRecord(ctx, testSubmission(), risk.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, explicit.ID, record.ID)
	})

	t.Run("invalid lithology class", func(t *testing.T) {
		sub := testSubmission()
		sub.LithClass = 7

		_, err := BuildRiskRecord(ctx, sub, risk.DefaultConfig())
		require.Error(t, err)
		assert.True(t, risk.IsValidation(err))
	})

	t.Run("invalid lore signal", func(t *testing.T) {
		sub := testSubmission()
		sub.LoreSignal = 1.4

		_, err := BuildRiskRecord(ctx, sub, risk.DefaultConfig())
		require.Error(t, err)
		assert.True(t, risk.IsValidation(err))
	})
}

func TestGenerateID(t *testing.T) {
	id1, seed1 := generateID("landslide", 46.21, 7.36, "2026-03-14")
	id2, seed2 := generateID("landslide", 46.21, 7.36, "2026-03-14")
	assert.Equal(t, id1, id2)
	assert.Equal(t, seed1, seed2)

	id3, _ := generateID("landslide", 46.22, 7.36, "2026-03-14")
	assert.NotEqual(t, id1, id3)

	idBare, _ := generateID("", 46.21, 7.36, "2026-03-14")
	assert.NotContains(t, idBare, "-")
}

func TestParseRawSubmission(t *testing.T) {
	baseDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("complete submission", func(t *testing.T) {
		data := []byte(`{"location_name":"Ridge Road","latitude":46.21,"longitude":7.36,"hazard_type":"rockfall","date_observed":"2026-03-14","slope_deg":35,"curvature":-0.5,"lith_class":3,"rain_exceed":0.8,"lore_signal":0.6,"exposure":0.75,"fragility":0.6}`)
		sub, err := ParseRawSubmission(RawSubmission{Value: data, Timestamp: baseDate})

		require.NoError(t, err)
		assert.Equal(t, "rockfall", sub.HazardType)
		assert.Equal(t, "Ridge Road", sub.LocationName)
		assert.Equal(t, 35.0, sub.SlopeDeg)
		assert.Equal(t, 3, sub.LithClass)
		assert.Nil(t, sub.SigmaH)
	})

	t.Run("defaults hazard type and date", func(t *testing.T) {
		data := []byte(`{"location_name":"Ridge Road","latitude":46.21,"longitude":7.36,"slope_deg":35,"lith_class":3}`)
		sub, err := ParseRawSubmission(RawSubmission{Value: data, Timestamp: baseDate})

		require.NoError(t, err)
		assert.Equal(t, "landslide", sub.HazardType)
		assert.Equal(t, "2026-03-14", sub.DateObserved)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawSubmission(RawSubmission{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw submission")
	})
}
