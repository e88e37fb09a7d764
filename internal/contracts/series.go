// Package contracts holds the data types shared across fredline layers.
package contracts

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateFormat is the only date layout accepted anywhere in fredline.
// Calendar dates, no time-of-day, no timezone.
const DateFormat = "2006-01-02"

// Observation is a single dated reading of a series. Value is invalid
// when the source published no observation for the date (FRED encodes
// this as "."); the distinction is decided once at parse time and never
// re-inferred downstream.
type Observation struct {
	Date  time.Time  `json:"date"`
	Value null.Float `json:"value"`
}

// Missing reports whether the observation carries no value
func (o Observation) Missing() bool {
	return !o.Value.Valid
}

// NewObservation creates an observation with a value
func NewObservation(date time.Time, value float64) Observation {
	return Observation{Date: date, Value: null.FloatFrom(value)}
}

// NewMissingObservation creates an observation with the missing marker
func NewMissingObservation(date time.Time) Observation {
	return Observation{Date: date}
}

// Row is one resolved result row. Unlike Observation its value is
// always present: alignment either fills a value or fails.
type Row struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
