// Command qsearchd serves the fragment-graph engine over HTTP: PUT/DELETE
// to register and drop items, GET /search to query, GET /stats for the
// engine's size and per-fragment load figures, and GET /metrics for
// Prometheus scraping.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fraglab/qsearch"
	"github.com/fraglab/qsearch/cache"
	"github.com/fraglab/qsearch/config"
	"github.com/fraglab/qsearch/internal/slogpretty"
	"github.com/fraglab/qsearch/scoring"
	"github.com/fraglab/qsearch/tokenize"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	stopWords, err := cfg.LoadStopWords()
	if err != nil {
		log.Error("failed to load stopwords file", slog.String("path", cfg.StopWordsFile), slog.String("error", err.Error()))
		os.Exit(1)
	}

	engine := qsearch.NewEngine[string](qsearch.WithLogger[string](log))

	resultCache, err := cache.New[string](cfg.CacheSize, engine.Epoch)
	if err != nil {
		log.Error("failed to build result cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &server{
		engine: engine,
		cache:  resultCache,
		tokenOpts: tokenize.Options{
			MinTokenLength: cfg.MinTokenLength,
			StopWords:      stopWords,
		},
		scorer: scoring.Prefix{},
		log:    log,
	}

	router, err := newRouter(srv)
	if err != nil {
		log.Error("failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := registerMetrics(srv); err != nil {
		log.Error("failed to register metrics collector", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", slog.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}
	return slog.New(&slogpretty.Handler{
		We:  os.Stderr,
		Wo:  os.Stdout,
		Lvl: cfg.SlogLevel(),
		Goa: make([]slogpretty.GroupOrAttrs, 0),
	})
}
