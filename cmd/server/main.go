package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookstruct/bookstruct/internal/api"
	"github.com/bookstruct/bookstruct/internal/cache"
	"github.com/bookstruct/bookstruct/internal/config"
	"github.com/bookstruct/bookstruct/internal/pipeline"
	"github.com/bookstruct/bookstruct/internal/profile"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load user profiles on top of the builtins.
	var extra []*profile.Profile
	if cfg.ProfileDir != "" {
		loaded, err := profile.LoadDir(cfg.ProfileDir)
		if err != nil {
			log.Error("failed to load profile dir", "dir", cfg.ProfileDir, "error", err)
			os.Exit(1)
		}
		extra = loaded
	}
	registry := profile.NewRegistry(extra...)
	log.Info("profiles loaded", "count", registry.Len())

	store, err := cache.NewStore(cfg.CacheDir, log)
	if err != nil {
		log.Error("failed to open cache", "dir", cfg.CacheDir, "error", err)
		os.Exit(1)
	}

	pl := pipeline.New(registry, store, log, cfg.SamplePages)

	orch := pipeline.NewOrchestrator(pl, log, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

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
	}()

	log.Info("starting bookstruct", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
