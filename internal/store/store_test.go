package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/risk"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id string, r float64, level risk.Level, gate bool) domain.RiskRecord {
	return domain.RiskRecord{
		ID:         id,
		HazardType: "landslide",
		Geo:        domain.Geo{Lat: 46.55, Lon: 12.14},
		Result: risk.Result{
			HScore:     0.72,
			LScore:     0.65,
			VScore:     0.67,
			RScore:     r,
			RiskLevel:  level,
			GatePassed: gate,
			Config:     risk.DefaultConfig(),
		},
		ComputedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_PutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := testRecord("landslide-abc123", 0.42, risk.LevelMedium, true)
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "landslide-abc123")
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_PutIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("landslide-dup", 0.42, risk.LevelMedium, true)
	require.NoError(t, s.Put(ctx, rec))
	require.NoError(t, s.Put(ctx, rec))

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_PutRejectsEmptyID(t *testing.T) {
	s := openTestStore(t)

	err := s.Put(context.Background(), domain.RiskRecord{})
	assert.Error(t, err)
}

func TestStore_GetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("landslide-del", 0.42, risk.LevelMedium, true)
	require.NoError(t, s.Put(ctx, rec))

	require.NoError(t, s.Delete(ctx, "landslide-del"))

	_, err := s.Get(ctx, "landslide-del")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteNotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := testRecord(fmt.Sprintf("landslide-%03d", i), 0.42, risk.LevelMedium, true)
		require.NoError(t, s.Put(ctx, rec))
	}

	records, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_Stats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testRecord("r1", 0.0, risk.LevelLow, false)))
	require.NoError(t, s.Put(ctx, testRecord("r2", 0.40, risk.LevelMedium, true)))
	require.NoError(t, s.Put(ctx, testRecord("r3", 0.85, risk.LevelSevere, true)))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.GatePassed)
	assert.Equal(t, 1, stats.ByLevel["low"])
	assert.Equal(t, 1, stats.ByLevel["medium"])
	assert.Equal(t, 0, stats.ByLevel["high"])
	assert.Equal(t, 1, stats.ByLevel["severe"])
	assert.InDelta(t, (0.0+0.40+0.85)/3, stats.MeanRScore, 1e-9)
	assert.InDelta(t, 0.85, stats.MaxRScore, 1e-9)
}

func TestStore_StatsEmpty(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRecords)
	assert.Zero(t, stats.MeanRScore)
}

func TestStore_PersistentReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Options{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testRecord("landslide-keep", 0.42, risk.LevelMedium, true)))
	require.NoError(t, s.Close())

	s2, err := Open(Options{Path: dir})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "landslide-keep")
	require.NoError(t, err)
	assert.Equal(t, "landslide-keep", got.ID)
}

func TestStore_PersistentRequiresPath(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Put(ctx, testRecord("r1", 0.42, risk.LevelMedium, true))
	assert.ErrorIs(t, err, context.Canceled)
}
