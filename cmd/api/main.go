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

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spacesedan/tubesentiment/config"
	"github.com/spacesedan/tubesentiment/internal/api"
	"github.com/spacesedan/tubesentiment/internal/clients"
	"github.com/spacesedan/tubesentiment/internal/logging"
	"github.com/spacesedan/tubesentiment/internal/monitoring"
	"github.com/spacesedan/tubesentiment/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lexicon, err := sentiment.LoadCustomLexicon(cfg.Sentiment.LexiconFile)
	if err != nil {
		slog.Error("[Main] Failed to load custom lexicon", slog.String("error", err.Error()))
		os.Exit(1)
	}
	analyzer, err := sentiment.NewAnalyzer(sentiment.AnalyzerConfig{
		Policy:  cfg.Sentiment.Policy,
		Lexicon: lexicon,
	})
	if err != nil {
		slog.Error("[Main] Failed to build analyzer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	youtube := clients.GetYouTubeClient(cfg.YouTube)
	youtube.Metrics = metrics

	server := &api.Server{
		Comments:          youtube,
		Metadata:          youtube,
		Analyzer:          analyzer,
		Metrics:           metrics,
		DefaultMaxResults: cfg.YouTube.DefaultMaxResults,
		MaxResultsCap:     cfg.YouTube.MaxResultsCap,
	}

	if cfg.Valkey.Enabled() {
		valkeyClient, err := clients.InitValkey(cfg.Valkey)
		if err != nil {
			slog.Warn("[Main] Comment cache unavailable, serving without it",
				slog.String("error", err.Error()))
		} else {
			defer clients.CloseValkey()

			healthy := &atomic.Bool{}
			healthy.Store(true)
			server.CacheHealthy = healthy
			server.Comments = clients.NewCachedCommentSource(youtube, valkeyClient, cfg.Valkey.CacheTTL, metrics)

			go monitoring.MonitorCacheHealth(ctx, valkeyClient, healthy,
				monitoring.HEALTHCHECK_TIMER*time.Second, metrics)
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.LoggingHandler(os.Stdout, api.NewRouter(server, cfg.AllowedOrigins)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("[Main] API listening",
			slog.String("port", cfg.Port),
			slog.String("env", cfg.Env),
			slog.String("policy", analyzer.Policy().Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
