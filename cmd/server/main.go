package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/repometa/internal/api"
	"github.com/dgallion1/repometa/internal/config"
	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/parser"
	"github.com/dgallion1/repometa/internal/pipeline"
	"github.com/dgallion1/repometa/internal/repourl"
	"github.com/dgallion1/repometa/internal/translate"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// External collaborators.
	lister := github.NewLister(cfg.GithubToken)
	fetcher := github.NewRawFetcher()
	probe := github.NewProbe()
	client := translate.NewClient(cfg.TranslateAPIKey, cfg.TargetLang)
	translator := translate.NewCached(client, translate.NewFileStore(cfg.CacheDir), log)

	// Enrichment pipeline.
	resolver := repourl.NewResolver(cfg.GithubOwner, cfg.DefaultBranch, cfg.Elevated())
	enricher := pipeline.NewEnricher(parser.New(true), resolver, pipeline.EnricherOptions{
		Fetcher:    fetcher,
		Downloader: fetcher,
		Prober:     probe,
		Translator: translator,
		AssetsDir:  cfg.AssetsDir,

		MaxConcurrentTranslate: cfg.MaxConcurrentTranslate,
	}, log)
	orch := pipeline.NewOrchestrator(cfg, enricher, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, lister, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		lister.Close()
		fetcher.Close()
		probe.Close()
		client.Close()
	}()

	log.Info("starting repometa", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
