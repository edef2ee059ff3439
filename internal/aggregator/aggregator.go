// Package aggregator runs the full pipeline behind the score endpoint:
// collect market and macro snapshots concurrently, score them, merge
// the result into the rolling history and cache the bundle.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/dolarscope/backend/internal/collector"
	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/internal/history"
	"github.com/dolarscope/backend/internal/score"
	"github.com/dolarscope/backend/pkg/logger"
	redisx "github.com/dolarscope/backend/pkg/redis"
)

const (
	// CacheKey is the fixed key for the single cached bundle.
	CacheKey = "score-v1"
	// CacheTTL bounds provider fan-out under repeated reads.
	CacheTTL = 60 * time.Second

	dateLayout = "2006-01-02"
)

// Aggregator owns the pipeline and its caches. The shared redis cache
// is optional; when it is disabled every read falls through to the
// in-memory cache alone.
type Aggregator struct {
	market *collector.MarketCollector
	macro  *collector.MacroCollector
	store  history.Store
	cache  *BundleCache
	shared *redisx.Cache
	logger *logger.Logger
	loc    *time.Location
	now    func() time.Time
}

// New creates an aggregator. shared may be nil.
func New(market *collector.MarketCollector, macro *collector.MacroCollector, store history.Store, shared *redisx.Cache, loc *time.Location, log *logger.Logger) *Aggregator {
	return &Aggregator{
		market: market,
		macro:  macro,
		store:  store,
		cache:  NewBundleCache(CacheTTL),
		shared: shared,
		logger: log.WithField("module", "aggregator"),
		loc:    loc,
		now:    time.Now,
	}
}

// ScoreBundle returns today's entry and the rolling history. It is
// idempotent within the cache TTL and side-effecting (persists the
// merged history) on a cache miss. It never fails: with every provider
// down the result is a mock-market, zero-evidence score.
func (a *Aggregator) ScoreBundle(ctx context.Context) *contracts.ScoreBundle {
	if bundle, ok := a.cache.Get(); ok {
		return bundle
	}

	if a.shared != nil {
		var cached contracts.ScoreBundle
		if found, err := a.shared.Get(ctx, CacheKey, &cached); err == nil && found {
			a.cache.Set(&cached)
			return &cached
		}
	}

	bundle := a.run(ctx)

	a.cache.Set(bundle)
	if a.shared != nil {
		if err := a.shared.Set(ctx, CacheKey, bundle, CacheTTL); err != nil {
			a.logger.WithError(err).Warn("Shared cache store failed")
		}
	}

	return bundle
}

// run executes one full pipeline cycle.
func (a *Aggregator) run(ctx context.Context) *contracts.ScoreBundle {
	started := a.now()

	var (
		market *contracts.MarketSnapshot
		macro  *contracts.MacroSnapshot
		wg     sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		market = a.market.Collect(ctx)
	}()
	go func() {
		defer wg.Done()
		macro = a.macro.Collect(ctx)
	}()
	wg.Wait()

	if macro == nil {
		macro = &contracts.MacroSnapshot{}
	}

	// The live VIX quote beats the collector's placeholder.
	if vix, ok := market.Quote("^VIX"); ok {
		macro.VIXAbove20 = contracts.Bool(vix > 20)
	}

	result := score.Compute(market, macro)

	today := a.now().In(a.loc)
	todayISO := today.Format(dateLayout)

	series := a.store.Load(ctx)
	if len(series) == 0 {
		series = history.Seed(result, today)
	}

	series = history.Merge(series, contracts.ScoreEntry{
		Date:    todayISO,
		Score:   result.Score,
		Label:   todayISO,
		Bias:    result.Bias,
		Brief:   result.Brief,
		Factors: result.Factors,
	})

	if err := a.store.Save(ctx, series); err != nil {
		a.logger.WithError(err).Warn("History persist failed, serving in-memory result")
	}

	a.logger.WithFields(map[string]interface{}{
		"score":    result.Score,
		"bias":     result.Bias,
		"factors":  len(result.Factors),
		"history":  len(series),
		"duration": time.Since(started),
	}).Info("Score pipeline completed")

	return &contracts.ScoreBundle{
		Today:   series[len(series)-1],
		History: series,
	}
}

// MarketSnapshot exposes the raw market collector for the market route.
func (a *Aggregator) MarketSnapshot(ctx context.Context) *contracts.MarketSnapshot {
	return a.market.Collect(ctx)
}
