package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ywkim/fredline/internal/contracts"
	"github.com/ywkim/fredline/internal/query"
	"github.com/ywkim/fredline/internal/series"
)

var (
	getDates  []string
	getStart  string
	getEnd    string
	getFormat string
)

// getCmd resolves a series query and prints the result table
var getCmd = &cobra.Command{
	Use:   "get [series_id]",
	Short: "Fetch a series and print the resolved result table",
	Long: `Fetches a FRED series and resolves it against the requested dates.

Without date flags the full series is returned. With --start/--end the
series is filtered to the range. With --dates each requested date is
resolved exactly, forward-filling from the most recent prior
observation when needed; fill warnings go to stderr.

Example:
  go run ./cmd/fredline get DTB3
  go run ./cmd/fredline get DTB3 --start 2020-01-01 --end 2020-12-31
  go run ./cmd/fredline get DGS10 --dates 2020-01-02,2020-01-03 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringSliceVar(&getDates, "dates", nil, "explicit dates (YYYY-MM-DD, comma-separated)")
	getCmd.Flags().StringVar(&getStart, "start", "", "range start date (YYYY-MM-DD)")
	getCmd.Flags().StringVar(&getEnd, "end", "", "range end date (YYYY-MM-DD)")
	getCmd.Flags().StringVar(&getFormat, "format", "table", "output format (table|csv|json)")
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	service, closer, err := newQueryService(cfg, log)
	if err != nil {
		return err
	}
	defer closer()

	req := query.Request{
		SeriesID:  args[0],
		Dates:     getDates,
		StartDate: getStart,
		EndDate:   getEnd,
	}

	result, err := service.ResolveQuery(context.Background(), req)
	if err != nil {
		return err
	}

	// Warnings go to stderr so piped output stays clean
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning [%s]: %s\n", w.Code, w.Message)
	}

	return printResult(result)
}

func printResult(result *series.Result) error {
	switch getFormat {
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tVALUE")
		for _, row := range result.Rows {
			fmt.Fprintf(w, "%s\t%g\n", row.Date.Format(contracts.DateFormat), row.Value)
		}
		return w.Flush()

	case "csv":
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"date", "value"}); err != nil {
			return err
		}
		for _, row := range result.Rows {
			record := []string{
				row.Date.Format(contracts.DateFormat),
				strconv.FormatFloat(row.Value, 'g', -1, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", getFormat)
	}
}
