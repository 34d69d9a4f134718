package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/textsummarizer/config"
	"github.com/spacesedan/textsummarizer/internal/api"
	"github.com/spacesedan/textsummarizer/internal/clients"
	"github.com/spacesedan/textsummarizer/internal/logging"
	"github.com/spacesedan/textsummarizer/internal/monitoring"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	capability := clients.GetCapability(cfg)
	handler := clients.NewSummaryHandler(cfg, capability)
	if cfg.Valkey.Enabled {
		if cache, err := clients.InitValkey(cfg.Valkey); err == nil {
			defer cache.Close()
		}
	}

	healthy := &atomic.Bool{}
	healthy.Store(true)
	go monitoring.MonitorCapabilityHealth(ctx, capability.Name(), capability, healthy, monitoring.HEALTHCHECK_INTERVAL)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(handler, healthy),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("[Main] Starting HTTP server",
			slog.String("address", cfg.HTTPAddr),
			slog.String("provider", capability.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed to start", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Server shutdown failed", slog.String("error", err.Error()))
		return
	}
	slog.Info("[Main] Server shutdown completed successfully")
}
