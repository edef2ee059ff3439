package tradingeconomics

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

// Client handles communication with the TradingEconomics economic
// calendar. Field names in the upstream payload vary across plans, so
// the client normalizes the alternates into one Event shape.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new TradingEconomics client.
func NewClient(cfg config.TradingEconomicsConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "tradingeconomics"),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Event is one normalized calendar entry. Actual and Forecast stay
// strings: the upstream mixes numbers, suffixed numbers ("3.2%") and
// blanks, and the sentiment classifier owns the numeric parsing.
type Event struct {
	Name       string
	Country    string
	Importance string
	Actual     string
	Forecast   string
}

type calendarItem struct {
	Event           string `json:"Event"`
	EventName       string `json:"EventName"`
	Country         string `json:"Country"`
	CountryCode     string `json:"CountryCode"`
	Actual          any    `json:"Actual"`
	Last            any    `json:"Last"`
	Value           any    `json:"Value"`
	Forecast        any    `json:"Forecast"`
	Importance      any    `json:"Importance"`
	ImportanceLevel any    `json:"ImportanceLevel"`
}

// Calendar fetches the calendar entries for one day and a country list.
// date is an ISO calendar date (yyyy-mm-dd).
func (c *Client) Calendar(ctx context.Context, date string, countries []string) ([]Event, bool) {
	if !c.Enabled() {
		return nil, false
	}

	params := url.Values{}
	params.Set("d1", date)
	params.Set("d2", date)
	params.Set("c", strings.Join(countries, ","))

	fullURL := fmt.Sprintf("%s/calendar?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"Authorization": "Client " + c.apiKey,
	})
	if err != nil {
		c.logger.WithError(err).Warn("Calendar request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Warn("Calendar returned non-OK status")
		return nil, false
	}

	var items []calendarItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.logger.WithError(err).Warn("Calendar response malformed")
		return nil, false
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		events = append(events, Event{
			Name:       firstNonEmpty(item.Event, item.EventName),
			Country:    firstNonEmpty(item.Country, item.CountryCode),
			Importance: strings.ToLower(stringify(firstNonNil(item.Importance, item.ImportanceLevel))),
			Actual:     stringify(firstNonNil(item.Actual, item.Last, item.Value)),
			Forecast:   stringify(item.Forecast),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  date,
		"count": len(events),
	}).Debug("Fetched calendar")

	return events, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
