// Command genmock generates deterministic mock factor submissions over a
// spatial grid, plus their computed risk records, for test fixtures and
// local Kafka seeding. It runs the actual domain computation so the
// transformed output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -center-lat 46.55 -center-lon 12.14 \
//	  -raw-out data/mock/factor_submissions.json \
//	  -records-out data/mock/risk_records.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/grid"
	"github.com/georiskmod/risk-service/internal/risk"
)

const fixtureDate = "2026-03-14"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	centerLat := flag.Float64("center-lat", 46.55, "study area center latitude")
	centerLon := flag.Float64("center-lon", 12.14, "study area center longitude")
	extentKm := flag.Float64("extent-km", 10, "study area extent in km")
	rows := flag.Int("rows", 8, "grid rows")
	cols := flag.Int("cols", 8, "grid columns")
	seed := flag.Uint64("seed", 7, "RNG seed for reproducible fixtures")
	rawOut := flag.String("raw-out", "", "output path for raw submission JSON fixture")
	recordsOut := flag.String("records-out", "", "output path for computed record JSON fixture")
	flag.Parse()

	if *rawOut == "" || *recordsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -records-out")
	}

	// Fixed clock for reproducible ComputedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	cells, err := grid.CellsFromCenter(*centerLat, *centerLon, *extentKm, *rows, *cols)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, 0))
	cfg := risk.DefaultConfig()

	submissions := make([]domain.FactorSubmission, 0, len(cells))
	records := make([]domain.RiskRecord, 0, len(cells))

	for _, cell := range cells {
		sub := synthesize(rng, cell)
		submissions = append(submissions, sub)

		record, err := domain.BuildRiskRecord(context.Background(), sub, cfg)
		if err != nil {
			return fmt.Errorf("cell %d: %w", cell.ID, err)
		}
		records = append(records, record)
	}

	if err := writeJSON(*rawOut, submissions); err != nil {
		return fmt.Errorf("writing submission fixture: %w", err)
	}
	log.Printf("wrote %d submissions: %s", len(submissions), *rawOut)

	if err := writeJSON(*recordsOut, records); err != nil {
		return fmt.Errorf("writing record fixture: %w", err)
	}
	log.Printf("wrote %d records: %s", len(records), *recordsOut)

	printStats(records)
	return nil
}

// synthesize draws plausible terrain and survey inputs for one cell. Steeper
// synthetic slopes cluster toward the grid's north rows so the fixture
// exercises all four risk levels.
func synthesize(rng *rand.Rand, cell grid.Cell) domain.FactorSubmission {
	rowBias := float64(cell.RowIndex) * 3

	return domain.FactorSubmission{
		LocationName: fmt.Sprintf("cell-%03d", cell.ID),
		Latitude:     cell.Lat,
		Longitude:    cell.Lon,
		HazardType:   "landslide",
		DateObserved: fixtureDate,
		SlopeDeg:     clampRange(10+rowBias+rng.Float64()*25, 0, 90),
		Curvature:    rng.Float64()*2 - 1,
		LithClass:    1 + rng.IntN(5),
		RainExceed:   rng.Float64(),
		LoreSignal:   rng.Float64(),
		Exposure:     rng.Float64(),
		Fragility:    rng.Float64(),
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(records []domain.RiskRecord) {
	levelCounts := map[risk.Level]int{}
	gatePassed := 0
	var maxR float64
	var maxID string

	for i := range records {
		r := &records[i]
		levelCounts[r.RiskLevel]++
		if r.GatePassed {
			gatePassed++
		}
		if r.RScore > maxR {
			maxR = r.RScore
			maxID = r.ID
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))
	fmt.Printf("Gate passed: %d\n", gatePassed)
	fmt.Printf("By level: low=%d, medium=%d, high=%d, severe=%d\n",
		levelCounts[risk.LevelLow], levelCounts[risk.LevelMedium],
		levelCounts[risk.LevelHigh], levelCounts[risk.LevelSevere])
	fmt.Printf("Max R: %.6f (%s)\n", maxR, maxID)
}
