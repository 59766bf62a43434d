package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tidwall/pretty"

	"cashtag-trader/internal/engine"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/metrics"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return 1
	}
	compressOldLogs(ctx, cfg)

	if cfg.MetricsAddr != "" {
		srv := metrics.Serve(cfg.MetricsAddr)
		defer srv.Close()
		logger.Info(ctx, "Metrics listening", "addr", cfg.MetricsAddr)
	}

	brk := initializeBroker(ctx, cfg)

	tradable, err := loadTradableSymbols(ctx, brk, cfg.PollInterval())
	if err != nil {
		logger.Info(ctx, "Bye bye")
		return 0
	}
	logger.Info(ctx, "Tradable symbols loaded", "count", len(tradable))

	poller, err := initializePoller(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to start poller", err)
		return 1
	}

	eng := initializeEngine(cfg, poller, brk, tradable)

	logger.Info(ctx, "Bot started",
		"mode", cfg.Mode,
		"account", cfg.Feed.Account,
		"source", cfg.Feed.Source,
		"poll_seconds", cfg.PollSeconds,
	)
	summary := func(res *types.StepResult) { printSummary(os.Stderr, res) }
	if err := engine.Run(ctx, eng, engine.PolicyFromConfig(cfg), summary); err != nil {
		logger.ErrorWithErr(ctx, "Stopped", err)
		return 1
	}

	logger.Info(ctx, "Bye bye")
	return 0
}

// printSummary writes a cycle result for humans. It goes to stderr so stdout
// stays one JSON log record per line.
func printSummary(w io.Writer, res *types.StepResult) {
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	w.Write(pretty.Pretty(b))
}
