package series

import (
	"time"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
)

// Result is an aligned result table: rows ascending by date plus the
// warnings accumulated while resolving them.
type Result struct {
	Rows     []contracts.Row     `json:"rows"`
	Warnings []contracts.Warning `json:"warnings,omitempty"`
}

const allMissingMsg = "All values are missing for requested series/date range"

// Align resolves a selector against a store. Full and Range emit only
// dates actually present in the source (ranges filter, they do not
// resample); explicit dates are forward-filled when absent.
func Align(sel Selector, store *Store) (*Result, error) {
	switch sel.Kind() {
	case SelectRange:
		start, end := sel.Bounds()
		var window []contracts.Observation
		for _, o := range store.Observations() {
			if !start.IsZero() && o.Date.Before(start) {
				continue
			}
			if !end.IsZero() && o.Date.After(end) {
				continue
			}
			window = append(window, o)
		}
		return alignWindow(window)

	case SelectDates:
		return alignDates(sel.Dates(), store)

	default:
		return alignWindow(store.Observations())
	}
}

// alignWindow emits one row per non-missing observation. A row simply
// does not exist for a missing date; nothing is synthesized.
func alignWindow(window []contracts.Observation) (*Result, error) {
	res := &Result{}
	for _, o := range window {
		if o.Missing() {
			continue
		}
		res.Rows = append(res.Rows, contracts.Row{Date: o.Date, Value: o.Value.Float64})
	}

	if len(res.Rows) == 0 && len(window) > 0 {
		return nil, errors.InvalidArgumentf(allMissingMsg)
	}

	return res, nil
}

// alignDates resolves each requested date, forward-filling from the
// nearest earlier non-missing observation when needed. Dates arrive
// sorted and de-duplicated from the selector, so warnings come out in
// ascending order with no repeats.
func alignDates(dates []time.Time, store *Store) (*Result, error) {
	if store.Empty() {
		return nil, errors.InvalidArgumentf(allMissingMsg)
	}

	res := &Result{}
	for _, d := range dates {
		if d.Before(store.Earliest()) {
			return nil, errors.InvalidArgumentf("requested date %s is before series inception date %s",
				d.Format(contracts.DateFormat), store.Earliest().Format(contracts.DateFormat))
		}

		if obs, ok := store.ValueAtOrBefore(d); ok && obs.Date.Equal(d) && !obs.Missing() {
			res.Rows = append(res.Rows, contracts.Row{Date: d, Value: obs.Value.Float64})
			continue
		}

		src, ok := store.NonMissingAtOrBefore(d)
		if !ok {
			// Series opens with missing markers; nothing to fill from.
			return nil, errors.InvalidArgumentf("No data available to forward-fill date %s",
				d.Format(contracts.DateFormat))
		}

		res.Rows = append(res.Rows, contracts.Row{Date: d, Value: src.Value.Float64})
		res.Warnings = append(res.Warnings, contracts.ForwardFillWarning(d, src.Date))
	}

	return res, nil
}
