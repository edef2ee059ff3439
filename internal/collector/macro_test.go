package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolarscope/backend/internal/external/bacen"
	"github.com/dolarscope/backend/internal/external/fred"
	"github.com/dolarscope/backend/internal/external/tradingeconomics"
	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
)

func newMacroCollector(t *testing.T, fredHandler, bacenHandler, teHandler http.HandlerFunc) *MacroCollector {
	t.Helper()

	log := logger.NewNop()
	httpClient := httputil.New(log)

	fredCfg := config.FREDConfig{}
	if fredHandler != nil {
		server := httptest.NewServer(fredHandler)
		t.Cleanup(server.Close)
		fredCfg = config.FREDConfig{APIKey: "test-key", BaseURL: server.URL}
	}

	bacenCfg := config.BacenConfig{BaseURL: "http://127.0.0.1:0"}
	if bacenHandler != nil {
		server := httptest.NewServer(bacenHandler)
		t.Cleanup(server.Close)
		bacenCfg = config.BacenConfig{BaseURL: server.URL}
	}

	teCfg := config.TradingEconomicsConfig{}
	if teHandler != nil {
		server := httptest.NewServer(teHandler)
		t.Cleanup(server.Close)
		teCfg = config.TradingEconomicsConfig{APIKey: "test-key", BaseURL: server.URL}
	}

	return NewMacroCollector(
		fred.NewClient(fredCfg, httpClient, log),
		bacen.NewClient(bacenCfg, httpClient, log),
		tradingeconomics.NewClient(teCfg, httpClient, log),
		time.UTC,
		log,
	)
}

func TestMacroCollect_AllSources(t *testing.T) {
	fredHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": [{"value": "4.30"}, {"value": "4.25"}]}`))
	}

	bacenHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "bcdata.sgs.432"):
			w.Write([]byte(`[{"valor": "10,75"}, {"valor": "10,50"}]`))
		case strings.Contains(r.URL.Path, "bcdata.sgs.24460"):
			w.Write([]byte(`[{"valor": "-1543,2"}]`))
		case strings.Contains(r.URL.Path, "bcdata.sgs.28587"):
			w.Write([]byte(`[{"valor": "2,4"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}

	teHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"Event": "CPI YoY", "Country": "United States", "Importance": "high", "Actual": "3.1", "Forecast": "3.4"},
			{"Event": "Retail Sales MoM", "Country": "Brazil", "Importance": "medium", "Actual": "0.2", "Forecast": "0.8"}
		]`))
	}

	c := newMacroCollector(t, fredHandler, bacenHandler, teHandler)

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)

	require.NotNil(t, snap.USRates)
	assert.Equal(t, 4.30, *snap.USRates)
	require.NotNil(t, snap.USRatesDelta)
	assert.InDelta(t, 0.05, *snap.USRatesDelta, 1e-9)

	// Selic: oldest first, current is the newer value.
	require.NotNil(t, snap.BRRates)
	assert.Equal(t, 10.50, *snap.BRRates)
	require.NotNil(t, snap.BRRatesDelta)
	assert.InDelta(t, -0.25, *snap.BRRatesDelta, 1e-9)

	require.NotNil(t, snap.BRLFlowNegative)
	assert.True(t, *snap.BRLFlowNegative)

	require.NotNil(t, snap.ExportsUp)
	assert.True(t, *snap.ExportsUp)

	require.NotNil(t, snap.USPositive)
	assert.True(t, *snap.USPositive)
	require.NotNil(t, snap.BRPositive)
	assert.False(t, *snap.BRPositive)

	// Placeholder until the aggregator sees a live VIX quote.
	require.NotNil(t, snap.VIXAbove20)
	assert.False(t, *snap.VIXAbove20)
}

func TestMacroCollect_PartialFailureKeepsSiblings(t *testing.T) {
	// FRED and the calendar are down; Bacen still answers.
	bacenHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "bcdata.sgs.432"):
			w.Write([]byte(`[{"valor": "10,50"}, {"valor": "10,75"}]`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}

	c := newMacroCollector(t, nil, bacenHandler, nil)

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)

	assert.Nil(t, snap.USRates)
	assert.Nil(t, snap.USRatesDelta)
	assert.Nil(t, snap.BRLFlowNegative)
	assert.Nil(t, snap.ExportsUp)

	require.NotNil(t, snap.BRRates)
	assert.Equal(t, 10.75, *snap.BRRates)
	require.NotNil(t, snap.BRRatesDelta)
	assert.InDelta(t, 0.25, *snap.BRRatesDelta, 1e-9)

	// No calendar means no positive surprise, not unknown.
	require.NotNil(t, snap.USPositive)
	assert.False(t, *snap.USPositive)
	require.NotNil(t, snap.BRPositive)
	assert.False(t, *snap.BRPositive)
}

func TestMacroCollect_AllSourcesDown(t *testing.T) {
	c := newMacroCollector(t, nil, nil, nil)

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)

	assert.Nil(t, snap.USRates)
	assert.Nil(t, snap.BRRates)
	assert.Nil(t, snap.BRLFlowNegative)
	assert.Nil(t, snap.ExportsUp)

	require.NotNil(t, snap.USPositive)
	assert.False(t, *snap.USPositive)
	require.NotNil(t, snap.VIXAbove20)
	assert.False(t, *snap.VIXAbove20)
}
