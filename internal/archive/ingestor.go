package archive

import (
	"context"
	"fmt"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/pkg/logger"
)

// Fetcher retrieves the raw CSV payload for a series.
type Fetcher interface {
	FetchSeries(ctx context.Context, seriesID string) (string, error)
}

// Parser converts a raw payload into observations.
type Parser interface {
	Parse(payload string) ([]contracts.Observation, error)
}

// Ingestor fetches a full series and archives it. Used by the ingest
// command and the scheduler; never by query resolution.
type Ingestor struct {
	fetcher Fetcher
	parser  Parser
	repo    *Repository
	logger  *logger.Logger
}

// NewIngestor creates an Ingestor
func NewIngestor(fetcher Fetcher, parser Parser, repo *Repository, log *logger.Logger) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		parser:  parser,
		repo:    repo,
		logger:  log,
	}
}

// Ingest fetches, parses and archives one series. Returns the number
// of observations written.
func (i *Ingestor) Ingest(ctx context.Context, seriesID string) (int, error) {
	payload, err := i.fetcher.FetchSeries(ctx, seriesID)
	if err != nil {
		return 0, fmt.Errorf("fetch series %s: %w", seriesID, err)
	}

	observations, err := i.parser.Parse(payload)
	if err != nil {
		return 0, fmt.Errorf("parse series %s: %w", seriesID, err)
	}

	if err := i.repo.SaveObservations(ctx, seriesID, observations); err != nil {
		return 0, fmt.Errorf("archive series %s: %w", seriesID, err)
	}

	i.logger.WithFields(map[string]interface{}{
		"series_id": seriesID,
		"rows":      len(observations),
	}).Info("Series archived")

	return len(observations), nil
}
