package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/blitzadex/internal/api"
	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/metrics"
	"github.com/dom/blitzadex/internal/repository"
	"github.com/dom/blitzadex/internal/repository/memory"
	"github.com/dom/blitzadex/internal/repository/postgres"
	"github.com/dom/blitzadex/internal/service"
	"github.com/dom/blitzadex/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize repositories; the database is an optional mirror
	var repos *repository.Repositories
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		repos = postgres.NewRepositories(db)
	} else {
		log.Println("DATABASE_URL not set, keeping sync history in memory")
		repos = memory.NewRepositories()
	}

	// Initialize the catalog from the disk cache
	dragon := cdragon.New(cdragon.NewClient(cfg), cfg.Paths)
	if err := dragon.LoadCached(); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("ERROR [main] failed to load cache from %s: %v", cfg.Paths.CacheDir, err)
		} else {
			log.Printf("No cached catalog in %s yet", cfg.Paths.CacheDir)
		}
	} else {
		metrics.ChampionsCached.Set(float64(len(dragon.ChampionMap())))
		log.Printf("Loaded %d champions from %s", len(dragon.ChampionMap()), cfg.Paths.CacheDir)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(dragon, repos, hub, cfg)
	if !cfg.SyncEnabled() {
		log.Println("JWT_SECRET not set, POST /api/v1/sync is disabled")
	}

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SyncInterval > 0 {
		log.Printf("Checking %s every %s", cfg.GameDataPlugin, cfg.SyncInterval)
		go services.Sync.RunPeriodic(ctx, cfg.SyncInterval)
	}

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // POST /sync waits for the whole download
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
