package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeH(t *testing.T) {
	t.Run("steeper slope raises the score", func(t *testing.T) {
		gentle, err := ComputeH(10, 0, 0.5, 0.5)
		require.NoError(t, err)
		steep, err := ComputeH(45, 0, 0.5, 0.5)
		require.NoError(t, err)

		assert.Greater(t, steep, gentle)
	})

	t.Run("concave terrain raises the score", func(t *testing.T) {
		convex, err := ComputeH(30, 1.5, 0.5, 0.5)
		require.NoError(t, err)
		concave, err := ComputeH(30, -1.5, 0.5, 0.5)
		require.NoError(t, err)

		assert.Greater(t, concave, convex)
	})

	t.Run("stays in unit range at extremes", func(t *testing.T) {
		low, err := ComputeH(0, 2, 0, 0)
		require.NoError(t, err)
		high, err := ComputeH(90, -2, 1, 1)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, low, 0.0)
		assert.LessOrEqual(t, high, 1.0)
	})

	t.Run("rejects out-of-domain slope", func(t *testing.T) {
		_, err := ComputeH(95, 0, 0.5, 0.5)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "slope_deg")
	})

	t.Run("rejects out-of-range rainfall", func(t *testing.T) {
		_, err := ComputeH(30, 0, 0.5, 1.5)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestLithologyErodibility(t *testing.T) {
	tests := []struct {
		class int
		want  float64
	}{
		{1, 0.0},
		{2, 0.25},
		{3, 0.5},
		{4, 0.75},
		{5, 1.0},
	}
	for _, tt := range tests {
		got, err := LithologyErodibility(tt.class)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "class %d", tt.class)
	}

	for _, bad := range []int{0, 6, -1} {
		_, err := LithologyErodibility(bad)
		require.Error(t, err, "class %d", bad)
		assert.True(t, IsValidation(err))
	}
}

func TestComputeL(t *testing.T) {
	got, err := ComputeL(0.6)
	require.NoError(t, err)
	assert.Equal(t, 0.6, got)

	_, err = ComputeL(-0.2)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestComputeV(t *testing.T) {
	// Exposure 0.75, fragility 0.60: 0.7*0.75 + 0.3*0.60 = 0.705.
	got, err := ComputeV(0.75, 0.60)
	require.NoError(t, err)
	assert.InDelta(t, 0.705, got, 1e-12)

	t.Run("exposure dominates", func(t *testing.T) {
		exposed, err := ComputeV(0.9, 0.1)
		require.NoError(t, err)
		fragile, err := ComputeV(0.1, 0.9)
		require.NoError(t, err)
		assert.Greater(t, exposed, fragile)
	})

	t.Run("rejects out-of-range fragility", func(t *testing.T) {
		_, err := ComputeV(0.5, 1.2)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}
