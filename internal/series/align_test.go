package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
)

func buildStore(t *testing.T, obs ...contracts.Observation) *Store {
	t.Helper()
	store, err := Build(obs)
	require.NoError(t, err)
	return store
}

func TestAlignFull(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewMissingObservation(date(t, "2020-01-02")),
		contracts.NewObservation(date(t, "2020-01-03"), 1.28),
	)

	res, err := Align(Full(), store)
	require.NoError(t, err)

	// Missing dates are skipped, not filled: the row just does not exist.
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 1.33, res.Rows[0].Value)
	assert.Equal(t, 1.28, res.Rows[1].Value)
	assert.Empty(t, res.Warnings)
}

func TestAlignRange(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.0),
		contracts.NewObservation(date(t, "2020-01-05"), 2.0),
		contracts.NewMissingObservation(date(t, "2020-01-07")),
		contracts.NewObservation(date(t, "2020-01-10"), 3.0),
		contracts.NewObservation(date(t, "2020-02-01"), 4.0),
	)

	tests := []struct {
		name       string
		start, end string
		wantValues []float64
	}{
		{"inner window", "2020-01-02", "2020-01-31", []float64{2.0, 3.0}},
		{"inclusive bounds", "2020-01-05", "2020-01-10", []float64{2.0, 3.0}},
		{"covers everything", "2019-01-01", "2021-01-01", []float64{1.0, 2.0, 3.0, 4.0}},
		{"empty window", "2020-03-01", "2020-04-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Align(Range(date(t, tt.start), date(t, tt.end)), store)
			require.NoError(t, err)

			var got []float64
			for _, row := range res.Rows {
				got = append(got, row.Value)

				// Ranges filter: no dates outside the source appear.
				assert.False(t, row.Date.Before(date(t, tt.start)))
				assert.False(t, row.Date.After(date(t, tt.end)))
			}
			assert.Equal(t, tt.wantValues, got)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestAlignRangeOpenBounds(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.0),
		contracts.NewObservation(date(t, "2020-01-05"), 2.0),
		contracts.NewObservation(date(t, "2020-01-10"), 3.0),
	)

	t.Run("start only", func(t *testing.T) {
		res, err := Align(Range(date(t, "2020-01-05"), time.Time{}), store)
		require.NoError(t, err)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, 2.0, res.Rows[0].Value)
		assert.Equal(t, 3.0, res.Rows[1].Value)
	})

	t.Run("end only", func(t *testing.T) {
		res, err := Align(Range(time.Time{}, date(t, "2020-01-05")), store)
		require.NoError(t, err)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, 1.0, res.Rows[0].Value)
		assert.Equal(t, 2.0, res.Rows[1].Value)
	})
}

func TestAlignRangeAllMissing(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.0),
		contracts.NewMissingObservation(date(t, "2020-02-01")),
		contracts.NewMissingObservation(date(t, "2020-02-02")),
	)

	_, err := Align(Range(date(t, "2020-02-01"), date(t, "2020-02-28")), store)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArgument))
	assert.Contains(t, err.Error(), "All values are missing")
}

func TestAlignExplicitExactMatches(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewObservation(date(t, "2020-01-03"), 1.28),
	)

	res, err := Align(Dates([]time.Time{date(t, "2020-01-03"), date(t, "2020-01-01")}), store)
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.True(t, res.Rows[0].Date.Equal(date(t, "2020-01-01")))
	assert.Equal(t, 1.33, res.Rows[0].Value)
	assert.True(t, res.Rows[1].Date.Equal(date(t, "2020-01-03")))
	assert.Equal(t, 1.28, res.Rows[1].Value)
	assert.Empty(t, res.Warnings)
}

func TestAlignExplicitForwardFill(t *testing.T) {
	// Concrete scenario: {2020-01-01: 1.33, 2020-01-03: 1.28},
	// request 2020-01-02.
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewObservation(date(t, "2020-01-03"), 1.28),
	)

	res, err := Align(Dates([]time.Time{date(t, "2020-01-02")}), store)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.True(t, res.Rows[0].Date.Equal(date(t, "2020-01-02")))
	assert.Equal(t, 1.33, res.Rows[0].Value)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, contracts.WarnForwardFilled, res.Warnings[0].Code)
	assert.Equal(t,
		"Date 2020-01-02 not found in series; forward-filled from 2020-01-01",
		res.Warnings[0].Message)
}

func TestAlignExplicitFillsOverMissingMarker(t *testing.T) {
	// The requested date exists in the source but holds the missing
	// marker; the fill source is the nearest earlier real value.
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewMissingObservation(date(t, "2020-01-02")),
	)

	res, err := Align(Dates([]time.Time{date(t, "2020-01-02")}), store)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1.33, res.Rows[0].Value)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t,
		"Date 2020-01-02 not found in series; forward-filled from 2020-01-01",
		res.Warnings[0].Message)
}

func TestAlignExplicitBeforeInception(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
	)

	_, err := Align(Dates([]time.Time{date(t, "2019-12-31"), date(t, "2020-01-01")}), store)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArgument))
	assert.Contains(t, err.Error(), "before series inception")
}

func TestAlignExplicitUnfillable(t *testing.T) {
	// Series opens with missing markers: nothing earlier to fill from.
	store := buildStore(t,
		contracts.NewMissingObservation(date(t, "2020-01-01")),
		contracts.NewObservation(date(t, "2020-01-05"), 2.0),
	)

	_, err := Align(Dates([]time.Time{date(t, "2020-01-02")}), store)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArgument))
	assert.Contains(t, err.Error(), "No data available to forward-fill date 2020-01-02")
}

func TestAlignExplicitDuplicatesCollapse(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewObservation(date(t, "2020-01-03"), 1.28),
	)

	res, err := Align(Dates([]time.Time{
		date(t, "2020-01-02"),
		date(t, "2020-01-02"),
		date(t, "2020-01-02"),
	}), store)
	require.NoError(t, err)

	// One row and one warning, not three.
	assert.Len(t, res.Rows, 1)
	assert.Len(t, res.Warnings, 1)
}

func TestAlignExplicitWarningsAscending(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.0),
		contracts.NewObservation(date(t, "2020-01-10"), 2.0),
	)

	res, err := Align(Dates([]time.Time{
		date(t, "2020-01-07"),
		date(t, "2020-01-03"),
		date(t, "2020-01-05"),
	}), store)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0].Message, "Date 2020-01-03")
	assert.Contains(t, res.Warnings[1].Message, "Date 2020-01-05")
	assert.Contains(t, res.Warnings[2].Message, "Date 2020-01-07")
}

func TestAlignIdempotent(t *testing.T) {
	store := buildStore(t,
		contracts.NewObservation(date(t, "2020-01-01"), 1.33),
		contracts.NewObservation(date(t, "2020-01-03"), 1.28),
	)
	sel := Dates([]time.Time{date(t, "2020-01-02"), date(t, "2020-01-03")})

	first, err := Align(sel, store)
	require.NoError(t, err)
	second, err := Align(sel, store)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestAlignExplicitEmptyStore(t *testing.T) {
	store := buildStore(t)

	_, err := Align(Dates([]time.Time{date(t, "2020-01-01")}), store)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArgument))
}
