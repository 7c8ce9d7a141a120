package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tycoon/internal/api"
	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/scheduler"
	"tycoon/internal/store"
)

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

	engine := game.New(game.Options{Store: st, SaveKey: cfg.SaveKey, Balance: bal, Logger: logger})
	if err := engine.Load(ctx); err != nil {
		logger.Error("load save failed", "err", err)
		os.Exit(1)
	}

	if cfg.Clock.Enabled {
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
		defer func() { _ = sched.Stop() }()
	}

	server := api.New(logger, engine)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tycoon api listening", "addr", cfg.Addr, "store", cfg.Store, "clock", cfg.Clock.Enabled)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
