package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_WorkedScenario(t *testing.T) {
	// H=0.72, L=0.65, V=0.67 with the default config:
	// R0 = 0.72*0.65*0.67 = 0.31356, S = 0.3*0.65 = 0.195,
	// R = 0.7*0.31356 + 0.3*0.195 = 0.277992.
	// (The model reference writeup mis-multiplies the product as
	// 0.313416; the formula value is asserted here.)
	r, gate, err := Aggregate(0.72, 0.65, 0.67, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, gate)
	assert.InDelta(t, 0.277992, r, 1e-9)
	assert.Equal(t, LevelLow, Classify(r), "0.277992 is just under the medium breakpoint")
}

func TestAggregate_GateFail(t *testing.T) {
	// H below tau_H forces zero risk regardless of L and V magnitudes.
	r, gate, err := Aggregate(0.20, 0.65, 0.67, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, gate)
	assert.Equal(t, 0.0, r)
	assert.Equal(t, LevelLow, Classify(r))
}

func TestAggregate_BoundaryExactness(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		h, l, v float64
	}{
		{"H exactly at tau_H", cfg.TauH, 0.65, 0.67},
		{"L exactly at tau_L", 0.72, cfg.TauL, 0.67},
		{"V exactly at tau_V", 0.72, 0.65, cfg.TauV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, gate, err := Aggregate(tt.h, tt.l, tt.v, cfg)
			require.NoError(t, err)
			assert.False(t, gate, "equality must fail the strict gate")
			assert.Equal(t, 0.0, r)
		})
	}
}

func TestAggregate_RangeInvariant(t *testing.T) {
	cfg := DefaultConfig()

	// Sweep the unit cube on a coarse lattice; every result must stay in [0,1].
	for h := 0.0; h <= 1.0; h += 0.1 {
		for l := 0.0; l <= 1.0; l += 0.1 {
			for v := 0.0; v <= 1.0; v += 0.1 {
				r, gate, err := Aggregate(h, l, v, cfg)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, r, 0.0)
				assert.LessOrEqual(t, r, 1.0)
				if !gate {
					assert.Equal(t, 0.0, r, "failed gate must force zero")
				}
			}
		}
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()

	r1, gate1, err := Aggregate(0.55, 0.61, 0.47, cfg)
	require.NoError(t, err)
	r2, gate2, err := Aggregate(0.55, 0.61, 0.47, cfg)
	require.NoError(t, err)

	assert.Equal(t, r1, r2, "identical inputs must produce bit-identical output")
	assert.Equal(t, gate1, gate2)
}

func TestAggregate_Exponents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = 2.0

	r, gate, err := Aggregate(0.72, 0.65, 0.67, cfg)
	require.NoError(t, err)
	require.True(t, gate)

	// R0 = 0.72^2 * 0.65 * 0.67, synergy unchanged.
	want := 0.7*(0.72*0.72*0.65*0.67) + 0.3*(0.3*0.65)
	assert.InDelta(t, want, r, 1e-12)
}

func TestAggregate_InvalidInputs(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		h, l, v float64
	}{
		{"H negative", -0.1, 0.5, 0.5},
		{"H above one", 1.1, 0.5, 0.5},
		{"L NaN", 0.5, math.NaN(), 0.5},
		{"V infinite", 0.5, 0.5, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Aggregate(tt.h, tt.l, tt.v, cfg)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("lambda out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LambdaMix = 1.5
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lambda_mix")
	})

	t.Run("non-positive exponent", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Beta = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "beta")
	})
}

func TestClassify_Breakpoints(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.80, LevelSevere},
		{0.799999, LevelHigh},
		{0.60, LevelHigh},
		{0.599999, LevelMedium},
		{0.30, LevelMedium},
		{0.29999, LevelLow},
		{0.0, LevelLow},
		{1.0, LevelSevere},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "Classify(%g)", tt.score)
	}
}
