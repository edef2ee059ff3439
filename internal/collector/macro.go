package collector

import (
	"context"
	"sync"
	"time"

	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/internal/external/bacen"
	"github.com/dolarscope/backend/internal/external/fred"
	"github.com/dolarscope/backend/internal/external/tradingeconomics"
	"github.com/dolarscope/backend/pkg/logger"
)

// calendarCountries are the two economies whose surprises feed the
// sentiment booleans.
var calendarCountries = []string{"Brazil", "United States"}

// MacroCollector gathers the five independent macro facts concurrently.
// Each sub-fetch is isolated: a failing source leaves its fields absent
// without blanking the others. Only an unexpected internal failure
// makes the whole snapshot nil.
type MacroCollector struct {
	fred   *fred.Client
	bacen  *bacen.Client
	te     *tradingeconomics.Client
	logger *logger.Logger
	loc    *time.Location
}

// NewMacroCollector creates a new macro collector.
func NewMacroCollector(fredClient *fred.Client, bacenClient *bacen.Client, teClient *tradingeconomics.Client, loc *time.Location, log *logger.Logger) *MacroCollector {
	return &MacroCollector{
		fred:   fredClient,
		bacen:  bacenClient,
		te:     teClient,
		logger: log.WithField("collector", "macro"),
		loc:    loc,
	}
}

// Collect runs the five sub-fetches in parallel and assembles the
// composite snapshot once all of them settle.
func (c *MacroCollector) Collect(ctx context.Context) (snap *contracts.MacroSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("panic", r).Error("Macro collection failed")
			snap = nil
		}
	}()

	var (
		usCurrent, usPrev float64
		usOK              bool

		selicValues []float64
		selicOK     bool

		flowValues []float64
		flowOK     bool

		exportValues []float64
		exportOK     bool

		sentiment sentimentResult
	)

	var wg sync.WaitGroup
	c.settle(&wg, "us_rates", func() {
		usCurrent, usPrev, usOK = c.fred.LatestPair(ctx, fred.SeriesUS10Y)
	})
	c.settle(&wg, "selic", func() {
		selicValues, selicOK = c.bacen.LastValues(ctx, bacen.SeriesSelicTarget, 2)
	})
	c.settle(&wg, "fx_flow", func() {
		flowValues, flowOK = c.bacen.LastValues(ctx, bacen.SeriesFXFlowWeekly, 1)
	})
	c.settle(&wg, "exports", func() {
		exportValues, exportOK = c.bacen.LastValues(ctx, bacen.SeriesExportsMonthly, 1)
	})
	c.settle(&wg, "sentiment", func() {
		sentiment = c.collectSentiment(ctx)
	})
	wg.Wait()

	snap = &contracts.MacroSnapshot{
		// Sentiment booleans are always present: "no calendar" means
		// "no positive surprise", not "unknown".
		USPositive: contracts.Bool(sentiment.usPositive),
		BRPositive: contracts.Bool(sentiment.brPositive),
		// Placeholder; the aggregator overwrites it from the live VIX
		// quote when one is available.
		VIXAbove20: contracts.Bool(false),
	}

	if usOK {
		snap.USRates = contracts.Float(usCurrent)
		snap.USRatesDelta = contracts.Float(usCurrent - usPrev)
	}

	if selicOK && len(selicValues) == 2 {
		snap.BRRates = contracts.Float(selicValues[1])
		snap.BRRatesDelta = contracts.Float(selicValues[1] - selicValues[0])
	}

	if flowOK && len(flowValues) == 1 {
		snap.BRLFlowNegative = contracts.Bool(flowValues[0] < 0)
	}

	if exportOK && len(exportValues) == 1 {
		snap.ExportsUp = contracts.Bool(exportValues[0] > 0)
	}

	return snap
}

// settle runs one sub-fetch in its own goroutine. A panicking branch
// resolves to "no value" instead of taking down its siblings.
func (c *MacroCollector) settle(wg *sync.WaitGroup, name string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.logger.WithFields(map[string]interface{}{
					"task":  name,
					"panic": r,
				}).Warn("Macro sub-fetch failed")
			}
		}()
		fn()
	}()
}

// collectSentiment fetches today's calendar for both countries and
// reduces it to the two sentiment booleans.
func (c *MacroCollector) collectSentiment(ctx context.Context) sentimentResult {
	today := time.Now().In(c.loc).Format("2006-01-02")

	events, ok := c.te.Calendar(ctx, today, calendarCountries)
	if !ok {
		return sentimentResult{}
	}

	return scoreSentiment(events)
}
