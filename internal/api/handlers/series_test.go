package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/internal/query"
	"github.com/ywkim/fredline/internal/series"
	"github.com/ywkim/fredline/pkg/config"
	"github.com/ywkim/fredline/pkg/logger"
)

type stubResolver struct {
	result  *series.Result
	err     error
	lastReq query.Request
}

func (s *stubResolver) ResolveQuery(ctx context.Context, req query.Request) (*series.Result, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func testResult(t *testing.T) *series.Result {
	t.Helper()
	d, err := time.Parse(contracts.DateFormat, "2020-01-02")
	require.NoError(t, err)
	return &series.Result{
		Rows:     []contracts.Row{{Date: d, Value: 1.33}},
		Warnings: []contracts.Warning{contracts.ForwardFillWarning(d, d.AddDate(0, 0, -1))},
	}
}

func TestGetObservations(t *testing.T) {
	resolver := &stubResolver{result: testResult(t)}
	handler := NewSeriesHandler(resolver, testLogger())

	req := httptest.NewRequest(http.MethodGet,
		"/api/series/DTB3/observations?dates=2020-01-02,2020-01-03", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "DTB3"})
	rec := httptest.NewRecorder()

	handler.GetObservations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "DTB3", resp.SeriesID)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 1.33, resp.Rows[0].Value)
	require.Len(t, resp.Warnings, 1)

	assert.Equal(t, []string{"2020-01-02", "2020-01-03"}, resolver.lastReq.Dates)
}

func TestGetObservationsRangeParams(t *testing.T) {
	resolver := &stubResolver{result: &series.Result{}}
	handler := NewSeriesHandler(resolver, testLogger())

	req := httptest.NewRequest(http.MethodGet,
		"/api/series/GDP/observations?start_date=2020-01-01&end_date=2020-12-31", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "GDP"})
	rec := httptest.NewRecorder()

	handler.GetObservations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2020-01-01", resolver.lastReq.StartDate)
	assert.Equal(t, "2020-12-31", resolver.lastReq.EndDate)
	assert.Nil(t, resolver.lastReq.Dates)
}

func TestGetObservationsErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid argument",
			err:        errors.InvalidArgumentf("series_id cannot be empty"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "malformed source",
			err:        errors.MalformedSourcef("duplicate observation date"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "MALFORMED_SOURCE",
		},
		{
			name:       "connection failure",
			err:        errors.Newf(errors.KindConnectionFailure, "FRED unreachable"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "CONNECTION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSeriesHandler(&stubResolver{err: tt.err}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/series/X/observations", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "X"})
			rec := httptest.NewRecorder()

			handler.GetObservations(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestPostQuery(t *testing.T) {
	resolver := &stubResolver{result: testResult(t)}
	handler := NewSeriesHandler(resolver, testLogger())

	body := `{"series_id": "DTB3", "dates": ["2020-01-02"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PostQuery(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DTB3", resolver.lastReq.SeriesID)
	assert.Equal(t, []string{"2020-01-02"}, resolver.lastReq.Dates)
}

func TestPostQueryTypeMismatch(t *testing.T) {
	handler := NewSeriesHandler(&stubResolver{}, testLogger())

	body := `{"series_id": 123}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PostQuery(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "TYPE_MISMATCH", resp["code"])
	assert.Contains(t, resp["error"], "series_id must be a string")
}

func TestPostQueryMalformedBody(t *testing.T) {
	handler := NewSeriesHandler(&stubResolver{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.PostQuery(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
