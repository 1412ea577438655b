// Package risk implements the Borromean risk model for geohazard assessment.
//
// # Model
//
// Risk is aggregated from three independently sourced, normalized factor
// scores, each in [0,1]:
//
//	H (Event Drivers)  — physical hazard likelihood (slope, curvature,
//	                     lithology erodibility, rainfall exceedance)
//	L (Local Lore)     — strength of historical and anecdotal evidence
//	V (Vulnerability)  — exposure and fragility of assets at risk
//
// The three factors form a Borromean triad: remove any one and the risk
// interpretation collapses. This is encoded as a minimum-threshold gate:
// every factor must strictly exceed its tau threshold before any risk is
// reported. A score exactly equal to its threshold fails the gate;
// thresholds denote the boundary of "negligible" and equality is treated
// as negligible.
//
// Past the gate, the score blends a product t-norm (noisy-AND: elevated
// risk needs corroboration across all three evidence types) with a
// weakest-link synergy term (the least-elevated factor caps the triad):
//
//	R = lambda_mix * (H^alpha * L^beta * V^gamma) + (1 - lambda_mix) * kappa_synergy * min(H, L, V)
//
// Mixing the two keeps a pure multiplicative model from collapsing to
// near-zero whenever one factor is merely moderate.
//
// # Classification
//
// Four-tier classification on the final score, evaluated high to low:
//
//	R >= 0.80  severe
//	R >= 0.60  high
//	R >= 0.30  medium
//	else       low
//
// The visualization layer uses the same breakpoints to pick overlay colors.
//
// # Uncertainty
//
// EstimateUncertainty propagates per-factor measurement uncertainty through
// the full gate-and-blend formula by Monte Carlo sampling. Default standard
// deviations reflect the provenance of each factor: H 0.05 (physical
// measurements), L 0.08 (lore is the least certain), V 0.04 (survey-based).
// Sensitivity attribution uses a one-at-a-time decomposition (per-factor
// variance contributions normalized to sum to 1) that ranks the factors
// by how much of the output spread they explain.
//
// # Validation
//
// Inputs outside their documented domains are rejected with a
// ValidationError, never silently clamped; silent clamping would hide
// upstream data-entry bugs. Clamping is applied only to derived values
// (the blended score, Monte Carlo draws) as a floating-point safety net.
package risk
