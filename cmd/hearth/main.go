package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/willowmere/hearth/internal/config"
	"github.com/willowmere/hearth/internal/database"
	"github.com/willowmere/hearth/internal/logging"
	"github.com/willowmere/hearth/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", "text").Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFmt)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("resolve timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, cfg, loc, logger)

	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		if err := srv.Notifier().Start(); err != nil {
			logger.Error("start notifier", "error", err)
			os.Exit(1)
		}
		defer srv.Notifier().Stop()
	} else {
		logger.Warn("VAPID keys not configured, chore reminders disabled")
	}

	// Drop expired rate limit buckets so long-running servers stay lean.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()
	defer close(cleanupDone)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("hearth listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
