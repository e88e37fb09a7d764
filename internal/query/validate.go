// Package query wires validation, fetching, parsing and alignment into
// the single resolve operation fredline exposes.
package query

import (
	"strings"
	"time"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/internal/series"
)

// Request is the raw query input as it arrives from the CLI or HTTP
// surface. Dates distinguishes nil (parameter absent) from an empty
// list (parameter supplied empty, which is rejected).
type Request struct {
	SeriesID  string   `json:"series_id"`
	Dates     []string `json:"dates,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

// Validate checks the request and converts it into a series id plus a
// selector. Pure: no I/O, and the first violation encountered aborts.
// Check order: emptiness, date formats, parameter combination, range
// order. (Type checks happen at the decode boundary before a Request
// exists.)
func Validate(req Request) (string, series.Selector, error) {
	seriesID := strings.TrimSpace(req.SeriesID)
	if seriesID == "" {
		return "", series.Selector{}, errors.InvalidArgumentf("series_id cannot be empty")
	}

	parsedDates := make([]time.Time, 0, len(req.Dates))
	for i, text := range req.Dates {
		d, err := parseDate(text)
		if err != nil {
			return "", series.Selector{}, errors.InvalidArgumentf(
				"dates[%d] must be in YYYY-MM-DD format, got '%s'", i, text)
		}
		parsedDates = append(parsedDates, d)
	}

	var start, end time.Time
	if req.StartDate != "" {
		d, err := parseDate(req.StartDate)
		if err != nil {
			return "", series.Selector{}, errors.InvalidArgumentf(
				"start_date must be in YYYY-MM-DD format, got '%s'", req.StartDate)
		}
		start = d
	}
	if req.EndDate != "" {
		d, err := parseDate(req.EndDate)
		if err != nil {
			return "", series.Selector{}, errors.InvalidArgumentf(
				"end_date must be in YYYY-MM-DD format, got '%s'", req.EndDate)
		}
		end = d
	}

	if req.Dates != nil && (req.StartDate != "" || req.EndDate != "") {
		return "", series.Selector{}, errors.InvalidArgumentf(
			"Cannot specify both 'dates' and 'start_date'/'end_date'")
	}
	if req.Dates != nil && len(req.Dates) == 0 {
		return "", series.Selector{}, errors.InvalidArgumentf("dates list cannot be empty")
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return "", series.Selector{}, errors.InvalidArgumentf(
			"start_date (%s) cannot be after end_date (%s)", req.StartDate, req.EndDate)
	}

	switch {
	case req.Dates != nil:
		return seriesID, series.Dates(parsedDates), nil
	case !start.IsZero() || !end.IsZero():
		return seriesID, series.Range(start, end), nil
	default:
		return seriesID, series.Full(), nil
	}
}

// parseDate accepts exactly YYYY-MM-DD: four-digit year, dash
// separators, no partial dates.
func parseDate(text string) (time.Time, error) {
	d, err := time.Parse(contracts.DateFormat, text)
	if err != nil {
		return time.Time{}, err
	}
	// Round-trip check: only canonical YYYY-MM-DD survives.
	if d.Format(contracts.DateFormat) != text {
		return time.Time{}, &time.ParseError{Layout: contracts.DateFormat, Value: text}
	}
	return d, nil
}
