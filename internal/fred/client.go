// Package fred talks to the FRED graph CSV endpoint and converts its
// payload into observations.
package fred

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ywkim/fredline/internal/errors"
	"github.com/ywkim/fredline/pkg/config"
	"github.com/ywkim/fredline/pkg/httputil"
	"github.com/ywkim/fredline/pkg/logger"
)

// Client fetches observation CSVs from FRED.
type Client struct {
	cfg        config.FREDConfig
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a FRED client on top of the shared HTTP client
func NewClient(cfg config.FREDConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// FetchSeries downloads the raw observation CSV for a series. It does
// no validation beyond I/O: unknown series surface as NotFound,
// transport problems as ConnectionFailure.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) (string, error) {
	q := url.Values{}
	q.Set("id", seriesID)
	u := fmt.Sprintf("%s/graph/fredgraph.csv?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	// FRED rejects requests without a browser-looking User-Agent.
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.ConnectionFailure(err,
			fmt.Sprintf("failed to fetch series '%s' from FRED", seriesID))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errors.NotFoundf("Series '%s' not found on FRED", seriesID)
	}
	if resp.StatusCode >= 400 {
		return "", errors.Newf(errors.KindConnectionFailure,
			"FRED returned HTTP %d for series '%s'", resp.StatusCode, seriesID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.ConnectionFailure(err,
			fmt.Sprintf("failed to read FRED response for series '%s'", seriesID))
	}

	payload := string(body)
	trimmed := strings.TrimSpace(payload)

	if len(trimmed) < 10 {
		return "", errors.NotFoundf("Series '%s' returned no data", seriesID)
	}

	// FRED answers 200 with an HTML error page for some bad ids.
	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html") {
		c.logger.WithFields(map[string]interface{}{
			"series_id":  seriesID,
			"page_title": htmlTitle(trimmed),
		}).Warn("FRED returned an HTML page instead of CSV")
		return "", errors.NotFoundf("Series '%s' not found on FRED", seriesID)
	}

	c.logger.WithFields(map[string]interface{}{
		"series_id": seriesID,
		"bytes":     len(payload),
	}).Debug("Fetched series CSV")

	return payload, nil
}

// htmlTitle extracts the <title> of an error page for the log
func htmlTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
