package risk

import (
	"fmt"
	"math"
)

// Factor derivation weights for ComputeH: slope, curvature, lithology,
// rainfall. They sum to 1 so the blend stays in [0,1] without rescaling.
const (
	weightSlope     = 0.4
	weightCurvature = 0.15
	weightLithology = 0.15
	weightRainfall  = 0.3
)

// logistic is the standard sigmoid with steepness k and midpoint x0.
func logistic(x, k, x0 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-k*(x-x0)))
}

// ComputeH derives the Event Drivers score from terrain and trigger data.
//
// Slope is transformed through a logistic centered at 20 degrees (steeper is
// riskier), curvature through a logistic on its negation (concave terrain
// collects water and debris), and lithology erodibility and rainfall
// exceedance enter directly as [0,1] scores.
func ComputeH(slopeDeg, curvature, lithErodibility, rainExceed float64) (float64, error) {
	if math.IsNaN(slopeDeg) || math.IsInf(slopeDeg, 0) || slopeDeg < 0 || slopeDeg > 90 {
		return 0, &ValidationError{Field: "slope_deg", Reason: fmt.Sprintf("must be in [0,90] degrees, got %g", slopeDeg)}
	}
	if math.IsNaN(curvature) || math.IsInf(curvature, 0) {
		return 0, &ValidationError{Field: "curvature", Reason: "must be a finite number"}
	}
	if err := validateUnit("lith_erodibility", lithErodibility); err != nil {
		return 0, err
	}
	if err := validateUnit("rain_exceed", rainExceed); err != nil {
		return 0, err
	}

	slopeTerm := logistic(slopeDeg, 0.15, 20)
	curvTerm := logistic(-curvature, 0.8, 0)

	h := weightSlope*slopeTerm + weightCurvature*curvTerm +
		weightLithology*lithErodibility + weightRainfall*rainExceed

	return clamp01(h), nil
}

// LithologyErodibility maps a lithology class (1 = hardest rock, 5 = most
// erodible) to a [0,1] erodibility score.
func LithologyErodibility(class int) (float64, error) {
	if class < 1 || class > 5 {
		return 0, &ValidationError{Field: "lith_class", Reason: fmt.Sprintf("must be in [1,5], got %d", class)}
	}
	return float64(class-1) / 4.0, nil
}

// ComputeL derives the Local Lore score. The lore signal arrives already
// aggregated from the evidence pipeline; this validates and clamps it.
func ComputeL(loreSignal float64) (float64, error) {
	if err := validateUnit("lore_signal", loreSignal); err != nil {
		return 0, err
	}
	return clamp01(loreSignal), nil
}

// ComputeV derives the Vulnerability score as a fixed exposure/fragility
// blend: exposure dominates because assets that are not exposed cannot be
// damaged regardless of fragility.
func ComputeV(exposure, fragility float64) (float64, error) {
	if err := validateUnit("exposure", exposure); err != nil {
		return 0, err
	}
	if err := validateUnit("fragility", fragility); err != nil {
		return 0, err
	}
	return clamp01(0.7*exposure + 0.3*fragility), nil
}
