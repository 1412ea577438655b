// Command validate performs end-to-end integrity checks on the mock data
// fixtures: it recomputes every risk record from the raw submissions and
// verifies ID determinism, score reproducibility, gate and classification
// consistency, and uncertainty invariants.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -submissions data/mock/factor_submissions.json \
//	  -records data/mock/risk_records.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/risk"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	submissionsPath := flag.String("submissions", "", "path to factor submission JSON fixture")
	recordsPath := flag.String("records", "", "path to computed record JSON fixture")
	flag.Parse()

	if *submissionsPath == "" || *recordsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*submissionsPath, *recordsPath); code != 0 {
		os.Exit(code)
	}
}

func run(submissionsPath, recordsPath string) int {
	// Fixed clock matching genmock for ComputedAt reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Risk Record Integrity Validation ===")
	fmt.Println()

	submissions, err := loadJSON[domain.FactorSubmission](submissionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load submissions: %v\n", err)
		return 1
	}

	records, err := loadJSON[domain.RiskRecord](recordsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load records: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateReplay(submissions, records),
		validateScoreConsistency(records),
		validateUncertainty(records),
		validateSchema(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d submissions, %d computed\n", len(submissions), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Phase 1: replay every submission through the domain computation and compare
// against the stored record. IDs, scores, and uncertainty bands must all
// reproduce exactly because the sampler seed derives from the record ID.
func validateReplay(submissions []domain.FactorSubmission, records []domain.RiskRecord) *phase {
	p := &phase{name: "Phase 1: Replay determinism"}

	byID := map[string]*domain.RiskRecord{}
	for i := range records {
		if records[i].ID == "" {
			p.errorf("record %d: missing ID", i)
			continue
		}
		byID[records[i].ID] = &records[i]
	}

	cfg := risk.DefaultConfig()
	for i := range submissions {
		recomputed, err := domain.BuildRiskRecord(context.Background(), submissions[i], cfg)
		if err != nil {
			p.errorf("submission %d: %v", i, err)
			continue
		}

		stored, ok := byID[recomputed.ID]
		if !ok {
			p.errorf("submission %d: ID %q not found in record fixture", i, recomputed.ID)
			continue
		}

		if !floatEq(stored.RScore, recomputed.RScore) {
			p.errorf("ID %s: R_score: expected %.9f, got %.9f", recomputed.ID, recomputed.RScore, stored.RScore)
		}
		if stored.RiskLevel != recomputed.RiskLevel {
			p.errorf("ID %s: level: expected %s, got %s", recomputed.ID, recomputed.RiskLevel, stored.RiskLevel)
		}
		if stored.GatePassed != recomputed.GatePassed {
			p.errorf("ID %s: gate: expected %v, got %v", recomputed.ID, recomputed.GatePassed, stored.GatePassed)
		}
		if !ptrFloatEq(stored.RStd, recomputed.RStd) {
			p.errorf("ID %s: R_std not reproducible from ID-derived seed", recomputed.ID)
		}
	}
	return p
}

// Phase 2: the stored scores must be internally consistent with the config
// echoed on each record.
func validateScoreConsistency(records []domain.RiskRecord) *phase {
	p := &phase{name: "Phase 2: Score consistency"}

	for i := range records {
		r := &records[i]

		gate := risk.Gate(r.HScore, r.LScore, r.VScore, r.Config)
		if gate != r.GatePassed {
			p.errorf("ID %s: gate recomputes to %v, record says %v", r.ID, gate, r.GatePassed)
		}
		if !r.GatePassed && r.RScore != 0 {
			p.errorf("ID %s: gate failed but R_score is %g", r.ID, r.RScore)
		}
		if r.RScore < 0 || r.RScore > 1 {
			p.errorf("ID %s: R_score %g outside [0,1]", r.ID, r.RScore)
		}
		if level := risk.Classify(r.RScore); level != r.RiskLevel {
			p.errorf("ID %s: R_score %g classifies as %s, record says %s", r.ID, r.RScore, level, r.RiskLevel)
		}
	}
	return p
}

// Phase 3: uncertainty invariants.
func validateUncertainty(records []domain.RiskRecord) *phase {
	p := &phase{name: "Phase 3: Uncertainty invariants"}

	for i := range records {
		r := &records[i]
		if r.RStd == nil {
			p.errorf("ID %s: missing uncertainty fields", r.ID)
			continue
		}
		if *r.RStd < 0 {
			p.errorf("ID %s: negative R_std %g", r.ID, *r.RStd)
		}
		if *r.RP05 > *r.RP95 {
			p.errorf("ID %s: p05 %g > p95 %g", r.ID, *r.RP05, *r.RP95)
		}
		sum := *r.HSensitivity + *r.LSensitivity + *r.VSensitivity
		if math.Abs(sum-1) > 1e-6 {
			p.errorf("ID %s: sensitivities sum to %g, want 1", r.ID, sum)
		}
	}
	return p
}

// Phase 4: field-level schema checks for downstream consumers.
func validateSchema(records []domain.RiskRecord) *phase {
	p := &phase{name: "Phase 4: Schema alignment"}

	validLevels := map[risk.Level]bool{
		risk.LevelLow: true, risk.LevelMedium: true,
		risk.LevelHigh: true, risk.LevelSevere: true,
	}

	for i := range records {
		r := &records[i]
		pf := func(format string, args ...any) {
			p.errorf("record %d (ID %s): "+format, append([]any{i, r.ID}, args...)...)
		}

		if r.HazardType == "" {
			pf("hazard_type is empty")
		}
		if !validLevels[r.RiskLevel] {
			pf("risk_level %q not in enum {low, medium, high, severe}", r.RiskLevel)
		}
		if r.Geo.Lat == 0 && r.Geo.Lon == 0 {
			pf("geo coordinates are both zero")
		}
		if r.DateObserved == "" {
			pf("date_observed is empty")
		}
		if r.ComputedAt.IsZero() {
			pf("computed_at is zero")
		}
		if err := r.Config.Validate(); err != nil {
			pf("echoed config invalid: %v", err)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}
