package collector

import (
	"context"
	"math"

	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/internal/external/alphavantage"
	"github.com/dolarscope/backend/internal/external/yahoo"
	"github.com/dolarscope/backend/pkg/logger"
)

// SymbolUS10Y is the derived 10-year yield symbol. ^TNX quotes the
// yield times ten, so US10Y = ^TNX / 10.
const SymbolUS10Y = "US10Y"

// Symbols is the fixed batch requested from the quote provider.
var Symbols = []string{
	"USD/BRL=X",
	"^DXY",
	"^VIX",
	"^TNX",
	"US10Y",
	"CL=F",
	"GC=F",
	"^BVSP",
	"^GSPC",
}

// MarketCollector assembles the market snapshot from the quote provider
// with an optional FX-rate enrichment. It never fails: a dead or
// unconfigured provider degrades to the static mock table so downstream
// consumers always see a populated snapshot.
type MarketCollector struct {
	yahoo        *yahoo.Client
	alphaVantage *alphavantage.Client
	logger       *logger.Logger
}

// NewMarketCollector creates a new market collector.
func NewMarketCollector(yahooClient *yahoo.Client, avClient *alphavantage.Client, log *logger.Logger) *MarketCollector {
	return &MarketCollector{
		yahoo:        yahooClient,
		alphaVantage: avClient,
		logger:       log.WithField("collector", "market"),
	}
}

// Collect fetches the quote batch, derives US10Y from ^TNX, falls back
// to the mock table when nothing was obtained, and enriches with the
// Alpha Vantage USD/BRL spot when that provider is configured.
func (c *MarketCollector) Collect(ctx context.Context) *contracts.MarketSnapshot {
	quotes := make(map[string]float64)
	changes := make(map[string]float64)

	if batch, ok := c.yahoo.QuoteBatch(ctx, Symbols); ok {
		for _, q := range batch {
			quotes[q.Symbol] = q.Price
			if q.ChangePercent != nil {
				changes[q.Symbol] = *q.ChangePercent
			}
		}

		if tnx, found := quotes["^TNX"]; found {
			quotes[SymbolUS10Y] = round2(tnx / 10)
			if pct, hasPct := changes["^TNX"]; hasPct {
				changes[SymbolUS10Y] = pct
			}
		}
	}

	if len(quotes) == 0 {
		quotes, changes = mockQuotes(), mockChanges()
		c.logger.Debug("Quote provider unavailable, using mock table")
	}

	indicators := make(map[string]any)
	if rate, ok := c.alphaVantage.ExchangeRate(ctx, "USD", "BRL"); ok {
		indicators["USD/BRL"] = rate
	}

	c.logger.WithFields(map[string]interface{}{
		"quotes":     len(quotes),
		"changes":    len(changes),
		"indicators": len(indicators),
	}).Debug("Collected market snapshot")

	return &contracts.MarketSnapshot{
		Quotes:     quotes,
		Changes:    changes,
		Indicators: indicators,
	}
}

// mockQuotes is the static fallback table, plausible levels as of the
// last tuning pass.
func mockQuotes() map[string]float64 {
	return map[string]float64{
		"USD/BRL=X": 5.35,
		"^DXY":      103.2,
		"^VIX":      17.5,
		"US10Y":     4.25,
		"CL=F":      78.1,
		"GC=F":      2350,
		"^BVSP":     128000,
		"^GSPC":     5230,
	}
}

func mockChanges() map[string]float64 {
	return map[string]float64{
		"^VIX":  -1.1,
		"US10Y": -0.05,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
