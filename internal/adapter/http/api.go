package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/risk"
	"github.com/georiskmod/risk-service/internal/store"
)

// API serves the risk calculation and record endpoints.
type API struct {
	store    *store.Store
	geocoder domain.Geocoder
	cfg      risk.Config
	logger   *slog.Logger
}

// NewAPI creates the risk API. geocoder may be nil to disable enrichment.
func NewAPI(st *store.Store, geocoder domain.Geocoder, cfg risk.Config, logger *slog.Logger) *API {
	return &API{
		store:    st,
		geocoder: geocoder,
		cfg:      cfg,
		logger:   logger,
	}
}

// CalculateRequest is the body for POST /api/risk/calculate: factor scores
// plus optional config and uncertainty overrides.
type CalculateRequest struct {
	HScore float64 `json:"H_score"`
	LScore float64 `json:"L_score"`
	VScore float64 `json:"V_score"`

	// Config holds partial overrides; fields absent from the JSON keep
	// the server's defaults.
	Config      json.RawMessage     `json:"config,omitempty"`
	Uncertainty *UncertaintyRequest `json:"uncertainty,omitempty"`
}

// UncertaintyRequest overrides the default Monte Carlo parameters. Absent
// fields keep their defaults.
type UncertaintyRequest struct {
	SigmaH      *float64 `json:"sigma_H,omitempty"`
	SigmaL      *float64 `json:"sigma_L,omitempty"`
	SigmaV      *float64 `json:"sigma_V,omitempty"`
	SampleCount int      `json:"sample_count,omitempty"`
	Seed        uint64   `json:"seed,omitempty"`
}

func (u *UncertaintyRequest) toParams() risk.UncertaintyParams {
	params := risk.DefaultUncertaintyParams()
	if u.SigmaH != nil {
		params.SigmaH = *u.SigmaH
	}
	if u.SigmaL != nil {
		params.SigmaL = *u.SigmaL
	}
	if u.SigmaV != nil {
		params.SigmaV = *u.SigmaV
	}
	if u.SampleCount > 0 {
		params.SampleCount = u.SampleCount
	}
	params.Seed = u.Seed
	return params
}

// errorResponse is the JSON body for all non-2xx responses.
type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (a *API) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	// Overrides are unmarshalled over a copy of the server config so a
	// request that sets one field keeps defaults for the rest.
	cfg := a.cfg
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid config overrides"})
			return
		}
	}

	var unc *risk.UncertaintyParams
	if req.Uncertainty != nil {
		params := req.Uncertainty.toParams()
		unc = &params
	}

	result, err := risk.Calculate(r.Context(), req.HScore, req.LScore, req.VScore, cfg, unc)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var sub domain.FactorSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if sub.HazardType == "" {
		sub.HazardType = "landslide"
	}

	record, err := domain.BuildRiskRecord(r.Context(), sub, a.cfg)
	if err != nil {
		a.writeError(w, err)
		return
	}
	record = domain.EnrichWithGeocoding(r.Context(), record, a.geocoder, a.logger)

	if err := a.store.Put(r.Context(), record); err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (a *API) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	records, err := a.store.List(r.Context(), limit)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (a *API) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := a.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.store.Stats(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeError maps domain errors to HTTP statuses: validation errors are the
// caller's fault (400), a missing record is 404, everything else is 500.
func (a *API) writeError(w http.ResponseWriter, err error) {
	var verr *risk.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Field:  verr.Field,
			Reason: verr.Reason,
		})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	default:
		a.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
