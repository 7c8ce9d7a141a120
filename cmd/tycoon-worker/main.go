package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/scheduler"
	"tycoon/internal/store"
)

// The worker advances the shared save without serving HTTP. Run it against a
// persistent store; only one process may drive a save key at a time.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	bal, err := config.LoadBalance(cfg.BalanceFile)
	if err != nil {
		logger.Error("load balance", "err", err)
		os.Exit(1)
	}
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store failed", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer st.Close()
	if cfg.Store == config.StoreMemory {
		logger.Warn("worker running on the memory store; progress is lost on exit")
	}

	engine := game.New(game.Options{Store: st, SaveKey: cfg.SaveKey, Balance: bal, Logger: logger})
	if err := engine.Load(ctx); err != nil {
		logger.Error("load save failed", "err", err)
		os.Exit(1)
	}

	if cfg.Clock.RunOnce {
		if err := scheduler.RunOnce(ctx, engine); err != nil {
			logger.Error("run-once failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed", "net_worth", engine.Snapshot().NetWorth)
		return
	}

	sched, err := scheduler.New(logger)
	if err != nil {
		logger.Error("scheduler init failed", "err", err)
		os.Exit(1)
	}
	if err := sched.AddClock(engine, cfg.Clock); err != nil {
		logger.Error("clock setup failed", "err", err)
		os.Exit(1)
	}
	sched.Start()
	logger.Info("worker started",
		"month_every", cfg.Clock.MonthEvery.String(),
		"quarter_every", cfg.Clock.QuarterEvery.String(),
		"price_every", cfg.Clock.PriceEvery.String(),
	)

	<-ctx.Done()
	if err := sched.Stop(); err != nil {
		logger.Error("scheduler shutdown", "err", err)
	}
	logger.Info("worker shutdown")
}
