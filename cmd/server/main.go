package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/api"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/config"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/parser"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/pipeline"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/store"
)

func main() {
	cfg := config.Load()

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	scoring, err := config.LoadScoring(cfg.ScoringConfig)
	if err != nil {
		log.Error("invalid scoring configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize result storage.
	st, err := store.Open(cfg.StoreDriver, cfg.DBPath, cfg.ResultTTL)
	if err != nil {
		log.Error("open result store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	if c, ok := st.(store.Cleaner); ok {
		go store.RunJanitor(ctx, c, 5*time.Minute, log)
	}

	// Initialize pipeline.
	orch, err := pipeline.NewOrchestrator(cfg, scoring, parser.NewPDFParser(), st, log)
	if err != nil {
		log.Error("init pipeline", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.MultiDocTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pdf intelligence api", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	if err := st.Close(); err != nil {
		log.Warn("close result store", "error", err)
	}
}
