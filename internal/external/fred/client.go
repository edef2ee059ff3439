package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

// SeriesUS10Y is the FRED series id for the 10-year constant-maturity
// Treasury yield.
const SeriesUS10Y = "DGS10"

// Client handles communication with the FRED observations API
// (St. Louis Fed). Failures resolve to ok=false.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new FRED client.
func NewClient(cfg config.FREDConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "fred"),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type observationsResponse struct {
	Observations []struct {
		Value string `json:"value"`
	} `json:"observations"`
}

// LatestPair fetches the two most recent observations of a series in
// descending order. FRED encodes missing data points as ".", which is
// treated like any other parse failure.
func (c *Client) LatestPair(ctx context.Context, seriesID string) (current, previous float64, ok bool) {
	if !c.Enabled() {
		return 0, 0, false
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	params.Set("sort_order", "desc")
	params.Set("limit", "2")

	fullURL := fmt.Sprintf("%s/fred/series/observations?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		c.logger.WithError(err).Warn("Observations request failed")
		return 0, 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Warn("Observations returned non-OK status")
		return 0, 0, false
	}

	var parsed observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WithError(err).Warn("Observations response malformed")
		return 0, 0, false
	}

	if len(parsed.Observations) < 2 {
		return 0, 0, false
	}

	current, err1 := strconv.ParseFloat(parsed.Observations[0].Value, 64)
	previous, err2 := strconv.ParseFloat(parsed.Observations[1].Value, 64)
	if err1 != nil || err2 != nil || math.IsNaN(current) || math.IsNaN(previous) {
		return 0, 0, false
	}

	c.logger.WithFields(map[string]interface{}{
		"series":   seriesID,
		"current":  current,
		"previous": previous,
	}).Debug("Fetched observation pair")

	return current, previous, true
}
