package risk

import "math"

// Level is the categorical risk classification of a score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
	LevelSevere Level = "severe"
)

// Gate reports whether all three factor scores strictly exceed their thresholds.
// Strict inequality is deliberate: a score exactly equal to its threshold is
// treated as negligible and fails the gate.
func Gate(h, l, v float64, cfg Config) bool {
	return h > cfg.TauH && l > cfg.TauL && v > cfg.TauV
}

// Aggregate computes the gated Borromean risk score for three validated
// factor scores. It returns the score, whether the gate passed, and an error
// if any input or configuration parameter is outside its domain.
//
// A failed gate forces the score to exactly 0 with no partial credit.
func Aggregate(h, l, v float64, cfg Config) (float64, bool, error) {
	if err := validateUnit("H", h); err != nil {
		return 0, false, err
	}
	if err := validateUnit("L", l); err != nil {
		return 0, false, err
	}
	if err := validateUnit("V", v); err != nil {
		return 0, false, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, false, err
	}

	r, gate := score(h, l, v, cfg)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false, ErrComputation
	}
	return r, gate, nil
}

// score is the unvalidated formula core. Callers must supply values already
// known to be in [0,1]; the Monte Carlo sampler calls it directly on clamped
// draws to avoid re-validating per sample.
func score(h, l, v float64, cfg Config) (float64, bool) {
	if !Gate(h, l, v, cfg) {
		return 0, false
	}

	// Product t-norm: all three factors must be elevated together.
	r0 := math.Pow(h, cfg.Alpha) * math.Pow(l, cfg.Beta) * math.Pow(v, cfg.Gamma)

	// Weakest-link synergy: the least-elevated factor caps the triad.
	s := cfg.KappaSynergy * math.Min(h, math.Min(l, v))

	r := cfg.LambdaMix*r0 + (1-cfg.LambdaMix)*s

	// Safety net against floating-point overshoot, not input tolerance.
	return clamp01(r), true
}

// Classify maps a risk score to its four-tier level. Breakpoints are
// evaluated high to low, first match wins.
func Classify(r float64) Level {
	switch {
	case r >= 0.80:
		return LevelSevere
	case r >= 0.60:
		return LevelHigh
	case r >= 0.30:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
