package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ywkim/fredline/internal/archive"
	"github.com/ywkim/fredline/internal/fred"
	"github.com/ywkim/fredline/pkg/database"
	"github.com/ywkim/fredline/pkg/httputil"
)

// ingestCmd archives full series into Postgres
var ingestCmd = &cobra.Command{
	Use:   "ingest [series_id...]",
	Short: "Fetch series and archive them in Postgres",
	Long: `Fetches each series in full and upserts its observations into
the archive. Revised values overwrite previously stored ones.

Example:
  go run ./cmd/fredline ingest DTB3
  go run ./cmd/fredline ingest DTB3 DGS10 GDP`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	httpClient := httputil.NewWithTimeout(cfg, log, cfg.FRED.Timeout).
		WithLocalRateLimit(cfg.FRED.RateLimit, cfg.FRED.RateWindow)
	fredClient := fred.NewClient(cfg.FRED, httpClient, log)
	processor := fred.NewProcessor(log)
	repo := archive.NewRepository(db.Pool)
	ingestor := archive.NewIngestor(fredClient, processor, repo, log)

	ctx := context.Background()
	var failed int
	for _, seriesID := range args {
		rows, err := ingestor.Ingest(ctx, seriesID)
		if err != nil {
			log.WithError(err).WithField("series_id", seriesID).Error("Ingest failed")
			failed++
			continue
		}
		fmt.Printf("%s: %d observations archived\n", seriesID, rows)
	}

	if failed > 0 {
		return fmt.Errorf("ingest failed for %d of %d series", failed, len(args))
	}

	return nil
}
