package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cashtag-trader/internal/advisor"
	"cashtag-trader/internal/advisor/advisorobs"
	"cashtag-trader/internal/broker/alpaca"
	"cashtag-trader/internal/broker/brokerobs"
	"cashtag-trader/internal/broker/dryrun"
	"cashtag-trader/internal/checkpoint"
	"cashtag-trader/internal/engine"
	"cashtag-trader/internal/engine/engineobs"
	"cashtag-trader/internal/feed"
	"cashtag-trader/internal/feed/feedobs"
	"cashtag-trader/internal/feed/scrape"
	"cashtag-trader/internal/feed/twitter"
	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/store"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/tradelog"
	"cashtag-trader/internal/types"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path, os.Getenv)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

func compressOldLogs(ctx context.Context, cfg *store.Config) {
	tradelog.SetDir(cfg.TradeLog.Dir)
	if err := tradelog.CompressOlder(cfg.TradeLog.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// initializeBroker builds the Alpaca broker, simulated in DRY_RUN, with observability
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	var brk interfaces.Broker = alpaca.New(alpaca.Params{
		BaseURL:   cfg.Credentials.AlpacaEndpoint,
		DataURL:   cfg.Credentials.AlpacaDataEndpoint,
		APIKey:    cfg.Credentials.AlpacaAPIKey,
		APISecret: cfg.Credentials.AlpacaAPISecret,
	})

	if cfg.Mode == store.ModeDryRun {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
		brk = dryrun.Wrap(brk)
	}

	return brokerobs.Wrap(brk)
}

func initializeFeed(ctx context.Context, cfg *store.Config) interfaces.Feed {
	var f interfaces.Feed
	switch cfg.Feed.Source {
	case store.SourceScrape:
		logger.Info(ctx, "Reading posts from HTML mirror", "url", cfg.Feed.ScrapeURL)
		f = scrape.NewScraper(cfg.Feed.ScrapeURL, 30*time.Second)
	default:
		cr := cfg.Credentials
		f = twitter.NewClient(cr.TwitterEndpoint, twitter.WithOAuth1(
			cr.TwitterAPIKey,
			cr.TwitterAPISecret,
			cr.TwitterAccessTokenKey,
			cr.TwitterAccessTokenSecret,
		))
	}
	return feedobs.Wrap(f)
}

func initializePoller(ctx context.Context, cfg *store.Config) (*feed.Poller, error) {
	cp := checkpoint.NewFileStore(cfg.CheckpointPath)
	p, err := feed.New(feed.Config{
		Account:  cfg.Feed.Account,
		PageSize: cfg.Feed.PageSize,
		Interval: cfg.PollInterval(),
	}, initializeFeed(ctx, cfg), cp)
	if err != nil {
		return nil, err
	}

	if id, ok := p.Cursor(); ok {
		logger.Info(ctx, "Resuming from checkpoint", "path", cp.Path(), "since_id", id)
	} else {
		logger.Info(ctx, "No checkpoint found, starting from the latest posts", "path", cp.Path())
	}
	return p, nil
}

// initializeEngine creates the engine with the stub decider and observability
func initializeEngine(cfg *store.Config, p *feed.Poller, brk interfaces.Broker, tradable types.SymbolSet) interfaces.Engine {
	adv := advisor.New(advisorobs.Wrap(advisor.NewStubDecider()))
	return engineobs.Wrap(engine.New(cfg, p, adv, brk, tradable))
}

// loadTradableSymbols retries until the brokerage answers or ctx is cancelled.
func loadTradableSymbols(ctx context.Context, brk interfaces.Broker, retry time.Duration) (types.SymbolSet, error) {
	for {
		set, err := brk.TradableSymbols(ctx)
		if err == nil {
			return set, nil
		}
		logger.Warn(ctx, "Retrying tradable symbol lookup", "error", err, "sleep", retry)

		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
