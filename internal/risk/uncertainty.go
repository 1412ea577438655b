package risk

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Default per-factor standard deviations, reflecting the provenance of each
// factor: physical measurements for H, oral history for L, surveys for V.
const (
	DefaultSigmaH = 0.05
	DefaultSigmaL = 0.08
	DefaultSigmaV = 0.04

	// DefaultSampleCount balances convergence against latency for
	// interactive use.
	DefaultSampleCount = 300
)

// chunkSize is the number of samples each Monte Carlo task draws. The RNG is
// seeded per chunk, so results are reproducible for a fixed seed regardless
// of how many workers run the chunks.
const chunkSize = 64

// UncertaintyParams configures Monte Carlo uncertainty propagation.
type UncertaintyParams struct {
	// SigmaH, SigmaL, SigmaV are per-factor standard deviations. Zero is
	// allowed and means the factor is treated as exact.
	SigmaH float64
	SigmaL float64
	SigmaV float64

	// SampleCount is the number of Monte Carlo draws. Must be positive.
	SampleCount int

	// Seed fixes the RNG for reproducible runs. Zero selects a random
	// seed, making successive runs independent.
	Seed uint64

	// Workers bounds the number of concurrent sampling tasks. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultUncertaintyParams returns the canonical sampling parameters.
func DefaultUncertaintyParams() UncertaintyParams {
	return UncertaintyParams{
		SigmaH:      DefaultSigmaH,
		SigmaL:      DefaultSigmaL,
		SigmaV:      DefaultSigmaV,
		SampleCount: DefaultSampleCount,
	}
}

// Uncertainty holds the Monte Carlo statistics for one aggregation.
type Uncertainty struct {
	// RStd is the sample standard deviation of the risk score draws.
	RStd float64 `json:"R_std"`

	// RP05 and RP95 bound the central 90% of the draw distribution,
	// computed by linear interpolation between order statistics.
	RP05 float64 `json:"R_p05"`
	RP95 float64 `json:"R_p95"`

	// Per-factor fractional contributions to output variance. Non-negative
	// and summing to 1 (within floating-point tolerance).
	HSensitivity float64 `json:"H_sensitivity"`
	LSensitivity float64 `json:"L_sensitivity"`
	VSensitivity float64 `json:"V_sensitivity"`
}

// EstimateUncertainty propagates per-factor uncertainty through the full
// gate-and-blend formula by Monte Carlo sampling.
//
// Each draw perturbs the point estimates with independent Gaussian noise and
// clamps the result to [0,1] before scoring (clamping keeps cost
// deterministic; no redraws). Sensitivity attribution perturbs one factor at
// a time across the same number of draws and normalizes the per-factor
// variances to sum to 1, giving a relative ranking rather than an unbiased
// Sobol estimator.
//
// With all sigmas zero there is no randomness to propagate: RStd is 0, both
// percentiles equal the deterministic score, and sensitivities fall back to
// an even split.
func EstimateUncertainty(ctx context.Context, h, l, v float64, cfg Config, p UncertaintyParams) (Uncertainty, error) {
	base, _, err := Aggregate(h, l, v, cfg)
	if err != nil {
		return Uncertainty{}, err
	}
	if err := p.validate(); err != nil {
		return Uncertainty{}, err
	}

	if p.SigmaH == 0 && p.SigmaL == 0 && p.SigmaV == 0 {
		return Uncertainty{
			RStd: 0, RP05: base, RP95: base,
			HSensitivity: 0.33, LSensitivity: 0.33, VSensitivity: 0.34,
		}, nil
	}

	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	n := p.SampleCount
	full := make([]float64, n)
	hOnly := make([]float64, n)
	lOnly := make([]float64, n)
	vOnly := make([]float64, n)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		chunk := uint64(start / chunkSize)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, chunk+1))
			for i := start; i < end; i++ {
				hs := clamp01(h + rng.NormFloat64()*p.SigmaH)
				ls := clamp01(l + rng.NormFloat64()*p.SigmaL)
				vs := clamp01(v + rng.NormFloat64()*p.SigmaV)

				full[i], _ = score(hs, ls, vs, cfg)

				// One-at-a-time draws reuse the same noise so the
				// attribution reflects the same perturbations.
				hOnly[i], _ = score(hs, l, v, cfg)
				lOnly[i], _ = score(h, ls, v, cfg)
				vOnly[i], _ = score(h, l, vs, cfg)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Uncertainty{}, err
	}

	u := Uncertainty{
		RStd: stddev(full),
		RP05: percentile(full, 0.05),
		RP95: percentile(full, 0.95),
	}
	u.HSensitivity, u.LSensitivity, u.VSensitivity = attribute(hOnly, lOnly, vOnly)
	return u, nil
}

func (p UncertaintyParams) validate() error {
	if err := validateNonNegative("sigma_H", p.SigmaH); err != nil {
		return err
	}
	if err := validateNonNegative("sigma_L", p.SigmaL); err != nil {
		return err
	}
	if err := validateNonNegative("sigma_V", p.SigmaV); err != nil {
		return err
	}
	if p.SampleCount <= 0 {
		return &ValidationError{Field: "sample_count", Reason: "must be > 0"}
	}
	return nil
}

// attribute normalizes the one-at-a-time variances into fractions summing
// to 1. With zero total variance (all draws gated to the same value) it
// falls back to an even split so the fractions still sum to 1.
func attribute(hOnly, lOnly, vOnly []float64) (float64, float64, float64) {
	varH := variance(hOnly)
	varL := variance(lOnly)
	varV := variance(vOnly)

	total := varH + varL + varV
	if total <= 0 {
		return 0.33, 0.33, 0.34
	}
	return varH / total, varL / total, varV / total
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return ss / float64(len(xs))
}

// stddev is the sample (n-1) standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// percentile computes the q-th quantile (q in [0,1]) by linear interpolation
// between order statistics, matching the numpy default.
func percentile(xs []float64, q float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
