// Package archive persists fetched observations to Postgres. It backs
// the ingest and scheduler surfaces only; query resolution always goes
// to the upstream source.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ywkim/fredline/internal/contracts"
)

// Repository stores series observations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new archive repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveObservations upserts a batch of observations for a series.
// Missing markers are stored as NULL values.
func (r *Repository) SaveObservations(ctx context.Context, seriesID string, observations []contracts.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	query := `
		INSERT INTO observations (series_id, obs_date, value, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (series_id, obs_date)
		DO UPDATE SET value = EXCLUDED.value, fetched_at = EXCLUDED.fetched_at
	`

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, obs := range observations {
		batch.Queue(query, seriesID, obs.Date, obs.Value, now)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range observations {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert observation: %w", err)
		}
	}

	return nil
}

// GetBySeriesAndRange retrieves archived observations for a series
// within [from, to] inclusive
func (r *Repository) GetBySeriesAndRange(ctx context.Context, seriesID string, from, to time.Time) ([]contracts.Observation, error) {
	query := `
		SELECT obs_date, value
		FROM observations
		WHERE series_id = $1 AND obs_date BETWEEN $2 AND $3
		ORDER BY obs_date ASC
	`

	rows, err := r.pool.Query(ctx, query, seriesID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var observations []contracts.Observation
	for rows.Next() {
		var obs contracts.Observation
		if err := rows.Scan(&obs.Date, &obs.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// LatestDate returns the most recent archived observation date for a
// series, or a zero time when the series has never been ingested
func (r *Repository) LatestDate(ctx context.Context, seriesID string) (time.Time, error) {
	query := `
		SELECT COALESCE(MAX(obs_date), 'epoch'::timestamptz)
		FROM observations
		WHERE series_id = $1
	`

	var latest time.Time
	if err := r.pool.QueryRow(ctx, query, seriesID).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("query latest date: %w", err)
	}
	if latest.Unix() == 0 {
		return time.Time{}, nil
	}
	return latest, nil
}

// CountBySeries returns the number of archived observations for a series
func (r *Repository) CountBySeries(ctx context.Context, seriesID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM observations WHERE series_id = $1`

	if err := r.pool.QueryRow(ctx, query, seriesID).Scan(&count); err != nil {
		return 0, fmt.Errorf("query observation count: %w", err)
	}
	return count, nil
}
