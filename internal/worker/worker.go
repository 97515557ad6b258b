package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"example.com/kiosk/internal/logger"
	"example.com/kiosk/internal/services/events"
	"example.com/kiosk/internal/services/queue"
	queuePkg "example.com/kiosk/pkg/queue"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	workerTimeout = 5 * time.Second
	lockTTL       = 30 * time.Second
	errorBackoff  = time.Second
	lockRetry     = 250 * time.Millisecond
)

// releaseLockScript deletes the lock only if we own it
var releaseLockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Worker processes requests from the global kiosk queue
type Worker struct {
	id          string
	queue       *queue.RequestQueue
	processor   *RequestProcessor
	broadcaster *events.Broadcaster
	redisClient *redis.Client
	log         *slog.Logger
	pollTimeout time.Duration
	lockRetry   time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(requestQueue *queue.RequestQueue, processor *RequestProcessor, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       requestQueue,
		processor:   processor,
		broadcaster: events.NewBroadcaster(redisClient, log),
		redisClient: redisClient,
		log:         log.With("worker_id", workerID),
		pollTimeout: workerTimeout,
		lockRetry:   lockRetry,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ID returns the worker identifier used as lock owner
func (w *Worker) ID() string {
	return w.id
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "poll_timeout", w.pollTimeout)

	for w.ctx.Err() == nil {
		err := w.processNextRequest()
		if err == nil {
			continue
		}
		w.log.Error("Error processing request", "error", err)
		select {
		case <-w.ctx.Done():
		case <-time.After(errorBackoff):
		}
	}

	w.log.Info("Worker shutting down")
	return nil
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested")
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeueRequest(w.ctx, w.pollTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}

	if req == nil {
		return nil // poll timed out
	}

	log := logger.WithRequestID(logger.WithKiosk(w.log, req.KioskID), req.RequestID)
	log.Info("Received request from queue", "type", req.Type)

	locked, err := w.acquireKioskLock(req.KioskID)
	if err != nil {
		return fmt.Errorf("failed to acquire kiosk lock: %w", err)
	}
	if !locked {
		// another worker owns this kiosk: back at the head, then give the owner time
		log.Info("Kiosk already locked, re-queueing request")
		if err := w.queue.RequeueRequest(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		select {
		case <-w.ctx.Done():
		case <-time.After(w.lockRetry):
		}
		return nil
	}

	defer w.releaseKioskLock(req.KioskID)
	return w.processRequest(req, log)
}

func lockKey(kioskID uuid.UUID) string {
	return fmt.Sprintf("kiosk-lock:%s", kioskID.String())
}

// acquireKioskLock returns true if the lock was acquired, false if already held
func (w *Worker) acquireKioskLock(kioskID uuid.UUID) (bool, error) {
	return w.redisClient.SetNX(w.ctx, lockKey(kioskID), w.id, lockTTL).Result()
}

func (w *Worker) releaseKioskLock(kioskID uuid.UUID) {
	// a fresh context so the lock is released even while shutting down
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, w.redisClient, []string{lockKey(kioskID)}, w.id).Err(); err != nil {
		logger.WithKiosk(w.log, kioskID).Error("Failed to release kiosk lock", "error", err)
	}
}

// processRequest runs req and reports the outcome on the kiosk's event channel.
func (w *Worker) processRequest(req *queuePkg.Request, log *slog.Logger) error {
	start := time.Now()

	result, err := w.processor.Process(w.ctx, req)
	if err != nil {
		log.Error("Failed to process request", "error", err)
		if pubErr := w.broadcaster.PublishRequestFailed(w.ctx, req.KioskID, req.RequestID, err.Error()); pubErr != nil {
			log.Error("Failed to publish failure event", "error", pubErr)
		}
		return fmt.Errorf("failed to process %s request: %w", req.Type, err)
	}

	elapsed := time.Since(start).Milliseconds()
	result["duration_ms"] = elapsed
	log.Info("Request processed", "type", req.Type, "duration_ms", elapsed)

	if err := w.broadcaster.PublishRequestCompleted(w.ctx, req.KioskID, req.RequestID, result); err != nil {
		log.Error("Failed to publish completion event", "error", err)
	}
	return nil
}
