package commands

import (
	"context"
	"fmt"

	"github.com/dolarscope/backend/internal/aggregator"
	"github.com/dolarscope/backend/internal/collector"
	"github.com/dolarscope/backend/internal/external/alphavantage"
	"github.com/dolarscope/backend/internal/external/bacen"
	"github.com/dolarscope/backend/internal/external/fred"
	"github.com/dolarscope/backend/internal/external/tradingeconomics"
	"github.com/dolarscope/backend/internal/external/yahoo"
	"github.com/dolarscope/backend/internal/history"
	"github.com/dolarscope/backend/pkg/config"
	"github.com/dolarscope/backend/pkg/database"
	"github.com/dolarscope/backend/pkg/httputil"
	"github.com/dolarscope/backend/pkg/logger"
	redisx "github.com/dolarscope/backend/pkg/redis"
)

// deps holds the wired pipeline shared by all commands.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	agg     *aggregator.Aggregator
	cleanup func()
}

// buildDeps wires config, clients, collectors, persistence and the
// aggregator. The caller must invoke cleanup when done.
func buildDeps() (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	loc := cfg.Location()

	// 3. Create HTTP client
	httpClient := httputil.New(log).WithRateLimit(5, 5)

	// 4. Create external API clients
	yahooClient := yahoo.NewClient(cfg.Yahoo, httpClient, log)
	avClient := alphavantage.NewClient(cfg.AlphaVantage, httpClient, log)
	fredClient := fred.NewClient(cfg.FRED, httpClient, log)
	bacenClient := bacen.NewClient(cfg.Bacen, httpClient, log)
	teClient := tradingeconomics.NewClient(cfg.TradingEconomics, httpClient, log)

	// 5. Create collectors
	market := collector.NewMarketCollector(yahooClient, avClient, log)
	macro := collector.NewMacroCollector(fredClient, bacenClient, teClient, loc, log)

	cleanups := make([]func(), 0, 2)

	// 6. Pick the history store: Postgres when configured, JSON file otherwise
	var store history.Store
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanups = append(cleanups, db.Close)

		pgStore := history.NewPostgresStore(db.Pool, log)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}
		store = pgStore
		log.Info("History store: PostgreSQL")
	} else {
		store = history.NewFileStore(cfg.History.Path, log)
		log.WithField("path", cfg.History.Path).Info("History store: local file")
	}

	// 7. Optional shared cache
	var shared *redisx.Cache
	redisClient, err := redisx.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-memory cache only")
	} else if redisClient.Enabled() {
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		shared = redisx.NewCache(redisClient, "dolarscope")
		log.Info("Shared cache: Redis")
	}

	// 8. Create aggregator
	agg := aggregator.New(market, macro, store, shared, loc, log)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	return &deps{cfg: cfg, log: log, agg: agg, cleanup: cleanup}, nil
}
