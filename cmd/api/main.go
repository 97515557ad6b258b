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

	"example.com/kiosk/internal/config"
	"example.com/kiosk/internal/handlers"
	"example.com/kiosk/internal/logger"
	"example.com/kiosk/internal/services"
	"example.com/kiosk/internal/services/events"
	"example.com/kiosk/internal/services/queue"
	"example.com/kiosk/internal/storage"
	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg, "api")

	log.Info("Starting Kiosk API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"building_file", cfg.BuildingFile,
		"default_language", cfg.DefaultLanguage)

	registry, err := building.LoadOrDefault(cfg.BuildingFile)
	if err != nil {
		log.Error("Failed to load building", "error", err)
		os.Exit(1)
	}
	log.Info("Building loaded", "floors", len(registry.Floors()), "rooms", len(registry.Rooms()))

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DisplayTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// queue and pub/sub share the storage connection pool
	rdb := store.Client()
	broadcaster := events.NewBroadcaster(rdb, log)
	requestQueue := queue.NewRequestQueue(queue.NewClientWithRedis(rdb, log))
	planner := guidance.NewPlanner(registry, log)

	router := handlers.NewRouter(handlers.Deps{
		Storage:         store,
		Guidance:        services.NewGuidanceService(store, planner, broadcaster, log),
		Queue:           requestQueue,
		Broadcaster:     broadcaster,
		RedisClient:     rdb,
		PublicBaseURL:   cfg.PublicBaseURL,
		DefaultLanguage: cfg.DefaultLanguage,
		Logger:          log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout removed to enable SSE streaming
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
