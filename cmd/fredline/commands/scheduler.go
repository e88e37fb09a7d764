package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ywkim/fredline/internal/archive"
	"github.com/ywkim/fredline/internal/fred"
	"github.com/ywkim/fredline/internal/scheduler"
	"github.com/ywkim/fredline/internal/scheduler/jobs"
	"github.com/ywkim/fredline/pkg/database"
	"github.com/ywkim/fredline/pkg/httputil"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the archive refresh scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- archive_refresh: re-ingests the configured series (SCHEDULER_SERIES)
  on the configured cron schedule (SCHEDULER_SPEC)

Example:
  go run ./cmd/fredline scheduler start
  go run ./cmd/fredline scheduler run archive_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a specific job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func initScheduler() (*scheduler.Scheduler, *database.DB, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Scheduler.Enabled {
		return nil, nil, fmt.Errorf("scheduler is disabled (set SCHEDULER_ENABLED=true)")
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	httpClient := httputil.NewWithTimeout(cfg, log, cfg.FRED.Timeout).
		WithLocalRateLimit(cfg.FRED.RateLimit, cfg.FRED.RateWindow)
	fredClient := fred.NewClient(cfg.FRED, httpClient, log)
	processor := fred.NewProcessor(log)
	repo := archive.NewRepository(db.Pool)
	ingestor := archive.NewIngestor(fredClient, processor, repo, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewRefreshJob(ingestor, cfg, log)); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("register refresh job: %w", err)
	}

	return sched, db, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, db, err := initScheduler()
	if err != nil {
		return err
	}
	defer db.Close()

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	sched, db, err := initScheduler()
	if err != nil {
		return err
	}
	defer db.Close()

	jobName := args[0]
	job, ok := sched.GetJob(jobName)
	if !ok {
		return fmt.Errorf("job %s not found (registered: %v)", jobName, sched.GetAllJobs())
	}

	fmt.Printf("Running job %s\n", jobName)
	if err := job.Run(cmd.Context()); err != nil {
		return fmt.Errorf("job %s: %w", jobName, err)
	}

	fmt.Printf("Job %s completed\n", jobName)
	return nil
}
