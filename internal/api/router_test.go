package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolarscope/backend/internal/aggregator"
	"github.com/dolarscope/backend/internal/api/handlers"
	"github.com/dolarscope/backend/internal/collector"
	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/internal/external/alphavantage"
	"github.com/dolarscope/backend/internal/external/bacen"
	"github.com/dolarscope/backend/internal/external/fred"
	"github.com/dolarscope/backend/internal/external/tradingeconomics"
	"github.com/dolarscope/backend/internal/external/yahoo"
	"github.com/dolarscope/backend/internal/history"
	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

// newTestRouter wires the full stack with every provider unconfigured,
// so requests are served from the mock market table.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := logger.NewNop()
	httpClient := httputil.New(log)

	market := collector.NewMarketCollector(
		yahoo.NewClient(config.YahooConfig{}, httpClient, log),
		alphavantage.NewClient(config.AlphaVantageConfig{}, httpClient, log),
		log,
	)
	macro := collector.NewMacroCollector(
		fred.NewClient(config.FREDConfig{}, httpClient, log),
		bacen.NewClient(config.BacenConfig{BaseURL: "http://127.0.0.1:0"}, httpClient, log),
		tradingeconomics.NewClient(config.TradingEconomicsConfig{}, httpClient, log),
		time.UTC,
		log,
	)

	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"), log)
	agg := aggregator.New(market, macro, store, nil, time.UTC, log)

	return NewRouter(handlers.NewScoreHandler(agg, log), log)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "dolarscope-api", body["service"])
}

func TestScoreEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/score", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var bundle contracts.ScoreBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))

	assert.Equal(t, 2.0, bundle.Today.Score)
	assert.Equal(t, contracts.BiasBuy, bundle.Today.Bias)
	assert.Len(t, bundle.History, 30)
}

func TestMarketEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/market", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snap contracts.MarketSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	assert.NotEmpty(t, snap.Quotes)
	assert.Contains(t, snap.Quotes, "USD/BRL=X")
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/score", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
