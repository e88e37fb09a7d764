package fred

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/pkg/logger"
)

// missingSentinel is how FRED marks a date with no published value.
const missingSentinel = "."

// Processor converts the raw FRED CSV payload into observations. The
// missing-or-value decision is made here, once, and carried as an
// explicit marker from then on.
type Processor struct {
	logger *logger.Logger
}

// NewProcessor creates a Processor
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{logger: log}
}

// Parse parses a 2-column observation CSV (header row, then
// date,value rows). Structural problems are MalformedSource.
func (p *Processor) Parse(payload string) ([]contracts.Observation, error) {
	reader := csv.NewReader(strings.NewReader(payload))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.KindMalformedSource, err, "failed to parse FRED CSV")
	}
	if len(records) == 0 {
		return nil, errors.MalformedSourcef("empty CSV payload")
	}

	header := records[0]
	if len(header) != 2 {
		return nil, errors.MalformedSourcef("invalid CSV format: expected 2 columns, got %d", len(header))
	}

	observations := make([]contracts.Observation, 0, len(records)-1)
	missing := 0

	for i, record := range records[1:] {
		dateText := strings.TrimSpace(record[0])
		date, err := time.Parse(contracts.DateFormat, dateText)
		if err != nil {
			return nil, errors.MalformedSourcef("invalid observation date %q at row %d: expected YYYY-MM-DD",
				dateText, i+2)
		}

		valueText := strings.TrimSpace(record[1])
		if valueText == "" || valueText == missingSentinel {
			observations = append(observations, contracts.NewMissingObservation(date))
			missing++
			continue
		}

		value, err := strconv.ParseFloat(valueText, 64)
		if err != nil {
			// FRED occasionally publishes placeholder tokens in the
			// value column; coerce them to the missing marker rather
			// than failing the whole series.
			observations = append(observations, contracts.NewMissingObservation(date))
			missing++
			continue
		}

		observations = append(observations, contracts.NewObservation(date, value))
	}

	p.logger.WithFields(map[string]interface{}{
		"rows":    len(observations),
		"missing": missing,
	}).Debug("Parsed FRED CSV")

	return observations, nil
}
