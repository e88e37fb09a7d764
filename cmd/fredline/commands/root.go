package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ywkim/fredline/internal/fred"
	"github.com/ywkim/fredline/internal/query"
	"github.com/ywkim/fredline/pkg/config"
	"github.com/ywkim/fredline/pkg/httputil"
	"github.com/ywkim/fredline/pkg/logger"
	"github.com/ywkim/fredline/pkg/redis"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fredline",
	Short: "fredline - FRED time series query and alignment",
	Long: `fredline fetches FRED economic data series and resolves
date-aligned result tables with forward fill.

Usage:
  go run ./cmd/fredline [command]

Examples:
  go run ./cmd/fredline get DTB3 --start 2020-01-01 --end 2020-12-31
  go run ./cmd/fredline get DGS10 --dates 2020-01-02,2020-01-03
  go run ./cmd/fredline serve
  go run ./cmd/fredline ingest DTB3 DGS10
  go run ./cmd/fredline scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads config and builds the logger shared by every command
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, logger.New(cfg), nil
}

// newQueryService wires the FRED client and processor into a query
// service. The returned closer releases the Redis connection when the
// shared rate limiter is enabled.
func newQueryService(cfg *config.Config, log *logger.Logger) (*query.Service, func(), error) {
	httpClient := httputil.NewWithTimeout(cfg, log, cfg.FRED.Timeout)

	closer := func() {}
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		limiter := redis.NewRateLimiter(redisClient, "fredline")
		httpClient = httpClient.WithRateLimiter(limiter, redis.FREDRateLimit)
		closer = func() { redisClient.Close() }
	} else {
		httpClient = httpClient.WithLocalRateLimit(cfg.FRED.RateLimit, cfg.FRED.RateWindow)
	}

	fredClient := fred.NewClient(cfg.FRED, httpClient, log)
	processor := fred.NewProcessor(log)

	return query.NewService(fredClient, processor, log), closer, nil
}
