package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/ywkim/fredline/internal/contracts"
)

// SelectorKind tags the active variant of a Selector.
type SelectorKind int

const (
	// SelectFull returns every observation in the series.
	SelectFull SelectorKind = iota
	// SelectRange filters observations to an inclusive date range.
	SelectRange
	// SelectDates resolves an explicit list of dates with forward fill.
	SelectDates
)

// Selector is the caller's chosen subset of a series. Exactly one
// variant is active; construction goes through Full, Range or Dates.
type Selector struct {
	kind  SelectorKind
	start time.Time
	end   time.Time
	dates []time.Time
}

// Full selects the whole series
func Full() Selector {
	return Selector{kind: SelectFull}
}

// Range selects observations within [start, end] inclusive. A zero
// bound leaves that side open. Bound ordering is the validator's job;
// Range does not re-check it.
func Range(start, end time.Time) Selector {
	return Selector{kind: SelectRange, start: start, end: end}
}

// Dates selects an explicit set of dates. Input order is irrelevant
// and duplicates collapse.
func Dates(dates []time.Time) Selector {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	deduped := sorted[:0]
	for i, d := range sorted {
		if i == 0 || !d.Equal(sorted[i-1]) {
			deduped = append(deduped, d)
		}
	}

	return Selector{kind: SelectDates, dates: deduped}
}

// Kind returns the active variant
func (s Selector) Kind() SelectorKind {
	return s.kind
}

// Bounds returns the inclusive range bounds of a SelectRange selector
func (s Selector) Bounds() (time.Time, time.Time) {
	return s.start, s.end
}

// Dates returns the sorted, de-duplicated dates of a SelectDates selector
func (s Selector) Dates() []time.Time {
	return s.dates
}

// String describes the selector for logs
func (s Selector) String() string {
	switch s.kind {
	case SelectRange:
		return fmt.Sprintf("range[%s..%s]",
			s.start.Format(contracts.DateFormat), s.end.Format(contracts.DateFormat))
	case SelectDates:
		return fmt.Sprintf("dates[%d]", len(s.dates))
	default:
		return "full"
	}
}
