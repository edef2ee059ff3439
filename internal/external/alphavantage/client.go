package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

// Client handles communication with the Alpha Vantage FX-rate API, the
// secondary enrichment source for the market snapshot. Failures resolve
// to ok=false and are silently absorbed by the collector.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Alpha Vantage client.
func NewClient(cfg config.AlphaVantageConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "alphavantage"),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type exchangeRateResponse struct {
	RealtimeCurrencyExchangeRate struct {
		ExchangeRate string `json:"5. Exchange Rate"`
	} `json:"Realtime Currency Exchange Rate"`
}

// ExchangeRate fetches a single spot rate (e.g. USD -> BRL).
// The API returns the rate as a string; a missing or unparseable rate
// is reported as ok=false.
func (c *Client) ExchangeRate(ctx context.Context, from, to string) (float64, bool) {
	if !c.Enabled() {
		return 0, false
	}

	params := url.Values{}
	params.Set("function", "CURRENCY_EXCHANGE_RATE")
	params.Set("from_currency", from)
	params.Set("to_currency", to)
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		c.logger.WithError(err).Warn("Exchange rate request failed")
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Warn("Exchange rate returned non-OK status")
		return 0, false
	}

	var parsed exchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WithError(err).Warn("Exchange rate response malformed")
		return 0, false
	}

	rate, err := strconv.ParseFloat(parsed.RealtimeCurrencyExchangeRate.ExchangeRate, 64)
	if err != nil {
		return 0, false
	}

	c.logger.WithFields(map[string]interface{}{
		"pair": from + "/" + to,
		"rate": rate,
	}).Debug("Fetched exchange rate")

	return rate, true
}
