package query

import (
	"context"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/internal/series"
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

// Service is the query facade: validate, fetch, parse, build the
// store, align. Each call builds a fresh store and discards it; there
// is no cross-call state.
type Service struct {
	fetcher Fetcher
	parser  Parser
	logger  *logger.Logger
}

// NewService creates a query Service
func NewService(fetcher Fetcher, parser Parser, log *logger.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		parser:  parser,
		logger:  log,
	}
}

// ResolveQuery resolves a series query into an aligned result table.
// Validation failures abort before the fetcher is invoked. A NotFound
// from the fetch layer surfaces to the caller as InvalidArgument;
// ConnectionFailure passes through untouched and is never retried
// here.
func (s *Service) ResolveQuery(ctx context.Context, req Request) (*series.Result, error) {
	seriesID, selector, err := Validate(req)
	if err != nil {
		s.logger.WithError(err).Error("Query validation failed")
		return nil, err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"series_id": seriesID,
		"selector":  selector.String(),
	})
	log.Info("Resolving series query")

	payload, err := s.fetcher.FetchSeries(ctx, seriesID)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil, errors.InvalidArgumentf("Series '%s' not found", seriesID)
		}
		log.WithError(err).Error("Failed to fetch series")
		return nil, err
	}

	observations, err := s.parser.Parse(payload)
	if err != nil {
		log.WithError(err).Error("Failed to parse series payload")
		return nil, err
	}

	store, err := series.Build(observations)
	if err != nil {
		log.WithError(err).Error("Failed to build series store")
		return nil, err
	}

	result, err := series.Align(selector, store)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"rows":     len(result.Rows),
		"warnings": len(result.Warnings),
	}).Info("Resolved series query")

	return result, nil
}
