package risk

import "context"

// Result is the complete, internally consistent output of one aggregation.
// It is produced fresh on every call and immutable once returned.
//
// The uncertainty fields are nil when the caller did not request
// uncertainty estimation.
type Result struct {
	HScore     float64 `json:"H_score"`
	LScore     float64 `json:"L_score"`
	VScore     float64 `json:"V_score"`
	RScore     float64 `json:"R_score"`
	RiskLevel  Level   `json:"risk_level"`
	GatePassed bool    `json:"gate_passed"`

	RStd         *float64 `json:"R_std,omitempty"`
	RP05         *float64 `json:"R_p05,omitempty"`
	RP95         *float64 `json:"R_p95,omitempty"`
	HSensitivity *float64 `json:"H_sensitivity,omitempty"`
	LSensitivity *float64 `json:"L_sensitivity,omitempty"`
	VSensitivity *float64 `json:"V_sensitivity,omitempty"`

	Config Config `json:"config"`
}

// Calculate validates the inputs, aggregates them into a gated score with
// its classification, and, when unc is non-nil, attaches Monte Carlo
// uncertainty statistics. The deterministic score is never replaced by the
// Monte Carlo mean; the statistics are reported alongside it.
func Calculate(ctx context.Context, h, l, v float64, cfg Config, unc *UncertaintyParams) (Result, error) {
	r, gate, err := Aggregate(h, l, v, cfg)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		HScore:     h,
		LScore:     l,
		VScore:     v,
		RScore:     r,
		RiskLevel:  Classify(r),
		GatePassed: gate,
		Config:     cfg,
	}

	if unc != nil {
		u, err := EstimateUncertainty(ctx, h, l, v, cfg, *unc)
		if err != nil {
			return Result{}, err
		}
		result.RStd = &u.RStd
		result.RP05 = &u.RP05
		result.RP95 = &u.RP95
		result.HSensitivity = &u.HSensitivity
		result.LSensitivity = &u.LSensitivity
		result.VSensitivity = &u.VSensitivity
	}

	return result, nil
}
