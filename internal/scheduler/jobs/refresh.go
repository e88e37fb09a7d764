// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/ywkim/fredline/internal/archive"
	"github.com/ywkim/fredline/pkg/config"
	"github.com/ywkim/fredline/pkg/logger"
)

// RefreshJob re-ingests the configured series into the archive.
// Each series is fetched in full; the upsert keeps revised values current.
type RefreshJob struct {
	ingestor *archive.Ingestor
	config   *config.Config
	logger   *logger.Logger
}

// NewRefreshJob creates a new archive refresh job
func NewRefreshJob(ing *archive.Ingestor, cfg *config.Config, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		ingestor: ing,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "archive_refresh"
}

// Schedule returns the cron schedule expression
func (j *RefreshJob) Schedule() string {
	return j.config.Scheduler.Spec
}

// Run refreshes every configured series. A failing series does not stop
// the others; the job fails if any series failed.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("series_count", len(j.config.Scheduler.Series)).
		Info("Starting archive refresh")

	var failed []string
	for _, seriesID := range j.config.Scheduler.Series {
		rows, err := j.ingestor.Ingest(ctx, seriesID)
		if err != nil {
			j.logger.WithError(err).WithField("series_id", seriesID).
				Error("Series refresh failed")
			failed = append(failed, seriesID)
			continue
		}

		j.logger.WithFields(map[string]interface{}{
			"series_id": seriesID,
			"rows":      rows,
		}).Info("Series refreshed")
	}

	if len(failed) > 0 {
		return fmt.Errorf("refresh failed for %d of %d series: %v",
			len(failed), len(j.config.Scheduler.Series), failed)
	}

	j.logger.Info("Archive refresh completed successfully")
	return nil
}
