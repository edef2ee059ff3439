package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

// Client handles communication with the Yahoo Finance quote API
// (yh-finance via RapidAPI). All quote-batch calls go through here.
//
// Every failure mode resolves to ok=false: callers get "no data",
// never a transport error.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "yahoo"),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Enabled reports whether a credential is configured. A disabled client
// answers every call with ok=false without touching the network.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Quote is one symbol's quote from a batch response.
type Quote struct {
	Symbol        string
	Price         float64
	ChangePercent *float64
}

type quoteBatchResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
			RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// QuoteBatch fetches current quotes for a symbol list in one request.
// Price prefers the last trade price and falls back to the previous
// close; symbols with neither are skipped.
func (c *Client) QuoteBatch(ctx context.Context, symbols []string) ([]Quote, bool) {
	if !c.Enabled() {
		return nil, false
	}

	params := url.Values{}
	params.Set("region", "US")
	params.Set("symbols", strings.Join(symbols, ","))

	fullURL := fmt.Sprintf("%s/market/v2/get-quotes?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"x-rapidapi-host": c.host(),
		"x-rapidapi-key":  c.apiKey,
	})
	if err != nil {
		c.logger.WithError(err).Warn("Quote batch request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Warn("Quote batch returned non-OK status")
		return nil, false
	}

	var parsed quoteBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WithError(err).Warn("Quote batch response malformed")
		return nil, false
	}

	quotes := make([]Quote, 0, len(parsed.QuoteResponse.Result))
	for _, q := range parsed.QuoteResponse.Result {
		if q.Symbol == "" {
			continue
		}

		var price float64
		switch {
		case q.RegularMarketPrice != nil:
			price = *q.RegularMarketPrice
		case q.RegularMarketPreviousClose != nil:
			price = *q.RegularMarketPreviousClose
		default:
			continue
		}

		quotes = append(quotes, Quote{
			Symbol:        q.Symbol,
			Price:         price,
			ChangePercent: q.RegularMarketChangePercent,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"returned":  len(quotes),
	}).Debug("Fetched quote batch")

	return quotes, true
}

// host extracts the hostname for the x-rapidapi-host header.
func (c *Client) host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	return u.Host
}
