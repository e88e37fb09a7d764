package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/internal/series"
)

func TestValidateAcceptsFullQuery(t *testing.T) {
	id, sel, err := Validate(Request{SeriesID: "DTB3"})
	require.NoError(t, err)
	assert.Equal(t, "DTB3", id)
	assert.Equal(t, series.SelectFull, sel.Kind())
}

func TestValidateTrimsSeriesID(t *testing.T) {
	id, _, err := Validate(Request{SeriesID: "  DTB3  "})
	require.NoError(t, err)
	assert.Equal(t, "DTB3", id)
}

func TestValidateSelectors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want series.SelectorKind
	}{
		{"explicit dates", Request{SeriesID: "DTB3", Dates: []string{"2020-01-01"}}, series.SelectDates},
		{"both bounds", Request{SeriesID: "DTB3", StartDate: "2020-01-01", EndDate: "2020-12-31"}, series.SelectRange},
		{"start only", Request{SeriesID: "DTB3", StartDate: "2020-01-01"}, series.SelectRange},
		{"end only", Request{SeriesID: "DTB3", EndDate: "2020-12-31"}, series.SelectRange},
		{"no filter", Request{SeriesID: "DTB3"}, series.SelectFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sel, err := Validate(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Kind())
		})
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantMsg string
	}{
		{
			name:    "empty series id",
			req:     Request{SeriesID: ""},
			wantMsg: "series_id cannot be empty",
		},
		{
			name:    "whitespace series id",
			req:     Request{SeriesID: "   "},
			wantMsg: "series_id cannot be empty",
		},
		{
			name:    "bad date in list",
			req:     Request{SeriesID: "DTB3", Dates: []string{"2020-01-01", "2020/01/02"}},
			wantMsg: "dates[1] must be in YYYY-MM-DD format, got '2020/01/02'",
		},
		{
			name:    "partial date",
			req:     Request{SeriesID: "DTB3", Dates: []string{"2020-01"}},
			wantMsg: "dates[0] must be in YYYY-MM-DD format, got '2020-01'",
		},
		{
			name:    "two digit year",
			req:     Request{SeriesID: "DTB3", StartDate: "20-01-01"},
			wantMsg: "start_date must be in YYYY-MM-DD format, got '20-01-01'",
		},
		{
			name:    "bad end date",
			req:     Request{SeriesID: "DTB3", EndDate: "2020-13-01"},
			wantMsg: "end_date must be in YYYY-MM-DD format, got '2020-13-01'",
		},
		{
			name:    "dates with range bounds",
			req:     Request{SeriesID: "DTB3", Dates: []string{"2020-01-01"}, StartDate: "2020-01-01"},
			wantMsg: "Cannot specify both 'dates' and 'start_date'/'end_date'",
		},
		{
			name:    "empty dates list",
			req:     Request{SeriesID: "DTB3", Dates: []string{}},
			wantMsg: "dates list cannot be empty",
		},
		{
			name:    "start after end",
			req:     Request{SeriesID: "DTB3", StartDate: "2020-12-31", EndDate: "2020-01-01"},
			wantMsg: "start_date (2020-12-31) cannot be after end_date (2020-01-01)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Validate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalidArgument),
				"expected InvalidArgument, got %v", errors.KindOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateNonCanonicalDates(t *testing.T) {
	// Strict parsing: no alternate separators, no missing zero padding.
	bad := []string{"2020.01.01", "2020-1-2", "01-01-2020", "20200101"}
	for _, text := range bad {
		t.Run(text, func(t *testing.T) {
			_, _, err := Validate(Request{SeriesID: "DTB3", Dates: []string{text}})
			require.Error(t, err)
		})
	}
}
