package bacen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

// SGS series ids consumed by the macro collector.
const (
	// SeriesSelicTarget is the Selic target rate, yearly percent.
	SeriesSelicTarget = 432
	// SeriesFXFlowWeekly is the weekly aggregate FX flow.
	SeriesFXFlowWeekly = 24460
	// SeriesExportsMonthly is the export quantum growth, percent m/m.
	SeriesExportsMonthly = 28587
)

// Client handles communication with the Banco Central SGS time-series
// API. The API is public (no credential); failures still resolve to
// ok=false so a Bacen outage never blanks the rest of the snapshot.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Bacen SGS client.
func NewClient(cfg config.BacenConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "bacen"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type sgsObservation struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// LastValues fetches the last n observations of an SGS series, oldest
// first. ok requires exactly n parseable values: a short or partially
// numeric response is treated as unavailable.
func (c *Client) LastValues(ctx context.Context, series, n int) ([]float64, bool) {
	fullURL := fmt.Sprintf("%s/dados/serie/bcdata.sgs.%d/dados/ultimos/%d?formato=json", c.baseURL, series, n)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		c.logger.WithError(err).WithField("series", series).Warn("SGS request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"series":      series,
			"status_code": resp.StatusCode,
		}).Warn("SGS returned non-OK status")
		return nil, false
	}

	var observations []sgsObservation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		c.logger.WithError(err).WithField("series", series).Warn("SGS response malformed")
		return nil, false
	}

	if len(observations) < n {
		return nil, false
	}

	values := make([]float64, 0, n)
	for _, obs := range observations[len(observations)-n:] {
		v, err := strconv.ParseFloat(strings.ReplaceAll(obs.Valor, ",", "."), 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}

	c.logger.WithFields(map[string]interface{}{
		"series": series,
		"count":  len(values),
	}).Debug("Fetched SGS series")

	return values, true
}
