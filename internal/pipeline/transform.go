package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/observability"
	"github.com/georiskmod/risk-service/internal/risk"
)

// SubmissionTransformer implements Transformer: it parses the submission,
// derives the factor scores, runs the gated aggregation with Monte Carlo
// uncertainty, and optionally enriches the record with geocoding.
type SubmissionTransformer struct {
	cfg      risk.Config
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a SubmissionTransformer. Pass a nil geocoder to
// disable geocoding enrichment; metrics may be nil.
func NewTransformer(cfg risk.Config, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *SubmissionTransformer {
	return &SubmissionTransformer{
		cfg:      cfg,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *SubmissionTransformer) Transform(ctx context.Context, raw domain.RawSubmission) (domain.RiskRecord, error) {
	sub, err := domain.ParseRawSubmission(raw)
	if err != nil {
		return domain.RiskRecord{}, err
	}

	start := time.Now()
	record, err := domain.BuildRiskRecord(ctx, sub, t.cfg)
	if err != nil {
		return domain.RiskRecord{}, err
	}

	if t.metrics != nil {
		t.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
		t.metrics.RiskLevels.WithLabelValues(string(record.RiskLevel)).Inc()
		if !record.GatePassed {
			t.metrics.GateFailures.Inc()
		}
	}

	record = domain.EnrichWithGeocoding(ctx, record, t.geocoder, t.logger)

	return record, nil
}
