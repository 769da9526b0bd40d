package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Resilience/internal/api"
	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/config"
	"github.com/MikeSquared-Agency/Resilience/internal/export"
	"github.com/MikeSquared-Agency/Resilience/internal/hermes"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
	"github.com/MikeSquared-Agency/Resilience/internal/session"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	report := flag.String("report", "", "print a report for a share token or link and exit")
	flag.Parse()

	if *report != "" {
		if err := printReport(*report); err != nil {
			fmt.Fprintf(os.Stderr, "report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage (optional, the session runs in memory without it)
	var persister *store.Persister
	blobs, err := store.OpenBlobStore(ctx, store.Backend(cfg.Storage.Backend), cfg.Storage.DSN)
	if err != nil {
		logger.Warn("blob store unavailable, assessment will not be persisted", "backend", cfg.Storage.Backend, "error", err)
	} else {
		defer blobs.Close()
		persister = store.NewPersister(blobs, cfg.Storage.KeyPrefix)
		logger.Info("blob store opened", "backend", cfg.Storage.Backend)
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	metrics := session.NewMetrics(prometheus.DefaultRegisterer)
	sess := session.New(catalog.Default(), persister, hermesClient, metrics, logger)
	res := sess.Open(ctx, store.TokenFromURL(cfg.Session.ImportToken))
	logger.Info("session ready", "session_id", sess.ID(), "origin", res.Origin)

	// API server
	router := api.NewRouter(sess, api.Options{
		ShareBaseURL:      cfg.Share.BaseURL,
		AdminToken:        cfg.Server.AdminToken,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	}, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func printReport(tokenOrURL string) error {
	snap, err := store.Decode(store.TokenFromURL(tokenOrURL))
	if err != nil {
		return err
	}
	cat := catalog.Default()
	merged := store.Merge(cat, *snap)
	result := scoring.Evaluate(cat, merged.Items, *merged.Weights)
	return export.WriteReport(os.Stdout, cat, merged, result)
}
