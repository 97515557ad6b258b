package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/kiosk/internal/config"
	"example.com/kiosk/internal/logger"
	"example.com/kiosk/internal/services"
	"example.com/kiosk/internal/services/events"
	"example.com/kiosk/internal/services/queue"
	"example.com/kiosk/internal/storage"
	"example.com/kiosk/internal/worker"
	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg, "worker")

	log.Info("Starting Kiosk Worker",
		"environment", cfg.Environment,
		"chat_backend_url", cfg.ChatBackendURL)

	registry, err := building.LoadOrDefault(cfg.BuildingFile)
	if err != nil {
		log.Error("Failed to load building", "error", err)
		os.Exit(1)
	}

	// Initialize queue service on its own connection so blocking pops
	// never starve storage calls
	queueClient, err := queue.NewClient(context.Background(), cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()
	requestQueue := queue.NewRequestQueue(queueClient)
	log.Info("Queue service initialized successfully")

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DisplayTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage connection", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	planner := guidance.NewPlanner(registry, log)
	guidanceService := services.NewGuidanceService(store, planner, events.NewBroadcaster(store.Client(), log), log)
	backend := services.NewHTTPChatBackend(cfg.ChatBackendURL, log)
	processor := worker.NewRequestProcessor(backend, guidanceService, log)

	w := worker.New(requestQueue, processor, store.Client(), log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
		}
	}()

	log.Info("Worker started, waiting for requests...", "worker_id", w.ID())

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("Worker did not stop in time")
	}

	log.Info("Worker exited")
}
