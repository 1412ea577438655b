package risk

// Default gate thresholds and blend weights. These are the model's canonical
// constants; any deviation must come in as explicit caller configuration,
// never as a silently varying global.
const (
	DefaultTauH         = 0.35
	DefaultTauL         = 0.25
	DefaultTauV         = 0.30
	DefaultLambdaMix    = 0.7
	DefaultKappaSynergy = 0.3
)

// Config holds the parameters for one aggregation run. It is treated as
// immutable: functions in this package never modify it.
type Config struct {
	// HazardType is a free-form label carried through to results for
	// display. It does not affect computation.
	HazardType string `json:"hazard_type"`

	// TauH, TauL, TauV are the minimum-threshold gate values. A factor
	// exactly equal to its threshold fails the gate.
	TauH float64 `json:"tau_H"`
	TauL float64 `json:"tau_L"`
	TauV float64 `json:"tau_V"`

	// LambdaMix weights the product term against the synergy term.
	LambdaMix float64 `json:"lambda_mix"`

	// KappaSynergy scales the weakest-link synergy term.
	KappaSynergy float64 `json:"kappa_synergy"`

	// Alpha, Beta, Gamma are exponents on H, L, V in the product term.
	// The defaults of 1.0 reduce the product term to plain H*L*V.
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DefaultConfig returns the canonical landslide configuration.
func DefaultConfig() Config {
	return Config{
		HazardType:   "landslide",
		TauH:         DefaultTauH,
		TauL:         DefaultTauL,
		TauV:         DefaultTauV,
		LambdaMix:    DefaultLambdaMix,
		KappaSynergy: DefaultKappaSynergy,
		Alpha:        1.0,
		Beta:         1.0,
		Gamma:        1.0,
	}
}

// Validate checks that every numeric parameter is inside its documented
// domain. Thresholds and blend weights live in [0,1]; exponents must be
// positive.
func (c Config) Validate() error {
	if err := validateUnit("tau_H", c.TauH); err != nil {
		return err
	}
	if err := validateUnit("tau_L", c.TauL); err != nil {
		return err
	}
	if err := validateUnit("tau_V", c.TauV); err != nil {
		return err
	}
	if err := validateUnit("lambda_mix", c.LambdaMix); err != nil {
		return err
	}
	if err := validateUnit("kappa_synergy", c.KappaSynergy); err != nil {
		return err
	}
	if err := validatePositive("alpha", c.Alpha); err != nil {
		return err
	}
	if err := validatePositive("beta", c.Beta); err != nil {
		return err
	}
	return validatePositive("gamma", c.Gamma)
}
