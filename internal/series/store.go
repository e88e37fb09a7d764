// Package series holds the in-memory series store and the alignment
// engine that resolves a caller's date selection against it.
package series

import (
	"sort"
	"time"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
)

// Store is a date-sorted, duplicate-free view of one fetched series.
// A store is owned by a single query execution and discarded with it;
// nothing is shared or cached across calls.
type Store struct {
	obs []contracts.Observation
}

// Build constructs a Store from parsed observations. The source claims
// ascending order but we sort anyway; a duplicate date is upstream
// corruption, not a caller error.
func Build(obs []contracts.Observation) (*Store, error) {
	sorted := make([]contracts.Observation, len(obs))
	copy(sorted, obs)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, errors.MalformedSourcef("duplicate observation date %s in source data",
				sorted[i].Date.Format(contracts.DateFormat))
		}
	}

	return &Store{obs: sorted}, nil
}

// Len returns the number of observations, missing ones included
func (s *Store) Len() int {
	return len(s.obs)
}

// Empty reports whether the store holds no observations at all
func (s *Store) Empty() bool {
	return len(s.obs) == 0
}

// Earliest returns the first observation date. Zero time when empty.
func (s *Store) Earliest() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.obs[0].Date
}

// Latest returns the last observation date. Zero time when empty.
func (s *Store) Latest() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.obs[len(s.obs)-1].Date
}

// Observations returns the sorted observations. Callers must not
// mutate the returned slice.
func (s *Store) Observations() []contracts.Observation {
	return s.obs
}

// At returns the observation with exactly the given date
func (s *Store) At(d time.Time) (contracts.Observation, bool) {
	idx := sort.Search(len(s.obs), func(i int) bool {
		return !s.obs[i].Date.Before(d)
	})
	if idx < len(s.obs) && s.obs[idx].Date.Equal(d) {
		return s.obs[idx], true
	}
	return contracts.Observation{}, false
}

// ValueAtOrBefore returns the latest observation with date <= d, which
// may carry the missing marker. Returns false when d precedes the
// earliest observation.
func (s *Store) ValueAtOrBefore(d time.Time) (contracts.Observation, bool) {
	idx := s.indexAtOrBefore(d)
	if idx < 0 {
		return contracts.Observation{}, false
	}
	return s.obs[idx], true
}

// NonMissingAtOrBefore returns the latest observation with date <= d
// that carries an actual value. Returns false when no such observation
// exists (d precedes the series, or the series opens with missing
// markers only).
func (s *Store) NonMissingAtOrBefore(d time.Time) (contracts.Observation, bool) {
	for idx := s.indexAtOrBefore(d); idx >= 0; idx-- {
		if !s.obs[idx].Missing() {
			return s.obs[idx], true
		}
	}
	return contracts.Observation{}, false
}

// indexAtOrBefore returns the index of the latest observation with
// date <= d, or -1
func (s *Store) indexAtOrBefore(d time.Time) int {
	idx := sort.Search(len(s.obs), func(i int) bool {
		return s.obs[i].Date.After(d)
	})
	return idx - 1
}
