// Package handlers implements the HTTP handlers for the fredline API.
package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/internal/query"
	"github.com/ywkim/fredline/internal/series"
	"github.com/ywkim/fredline/pkg/logger"
)

// Resolver resolves series queries.
type Resolver interface {
	ResolveQuery(ctx context.Context, req query.Request) (*series.Result, error)
}

// SeriesHandler handles series query API endpoints.
type SeriesHandler struct {
	resolver Resolver
	logger   *logger.Logger
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(resolver Resolver, log *logger.Logger) *SeriesHandler {
	return &SeriesHandler{
		resolver: resolver,
		logger:   log,
	}
}

// QueryResponse is the resolved result table for API responses
type QueryResponse struct {
	SeriesID string              `json:"series_id"`
	Rows     []contracts.Row     `json:"rows"`
	Warnings []contracts.Warning `json:"warnings,omitempty"`
}

// GetObservations resolves a series query from URL parameters
// GET /api/series/{id}/observations?dates=...&start_date=...&end_date=...
func (h *SeriesHandler) GetObservations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	params := r.URL.Query()

	req := query.Request{
		SeriesID:  vars["id"],
		StartDate: params.Get("start_date"),
		EndDate:   params.Get("end_date"),
	}

	// A present-but-empty dates parameter stays distinguishable from
	// an absent one; the validator rejects the former.
	if values, ok := params["dates"]; ok {
		req.Dates = []string{}
		for _, value := range values {
			for _, item := range strings.Split(value, ",") {
				if trimmed := strings.TrimSpace(item); trimmed != "" {
					req.Dates = append(req.Dates, trimmed)
				}
			}
		}
	}

	h.resolve(w, r, req)
}

// PostQuery resolves a series query from a JSON body
// POST /api/query
func (h *SeriesHandler) PostQuery(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQueryRequest(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.resolve(w, r, req)
}

func (h *SeriesHandler) resolve(w http.ResponseWriter, r *http.Request, req query.Request) {
	result, err := h.resolver.ResolveQuery(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, QueryResponse{
		SeriesID: strings.TrimSpace(req.SeriesID),
		Rows:     result.Rows,
		Warnings: result.Warnings,
	})
}

// decodeQueryRequest decodes the JSON body, mapping type errors from
// the decoder onto the TypeMismatch kind.
func decodeQueryRequest(r *http.Request) (query.Request, error) {
	var req query.Request

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "request body"
			}
			return query.Request{}, errors.TypeMismatchf(
				"%s must be a %s, got %s", field, expectedType(field), typeErr.Value)
		}
		return query.Request{}, errors.InvalidArgumentf("invalid request body")
	}

	return req, nil
}

func expectedType(field string) string {
	if field == "dates" {
		return "list of strings"
	}
	return "string"
}

func (h *SeriesHandler) respondError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		h.logger.WithError(err).Error("Query failed")
	} else {
		h.logger.WithError(err).Warn("Query rejected")
	}

	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(errors.KindOf(err)),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
