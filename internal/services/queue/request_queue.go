package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/kiosk/pkg/queue"
	"github.com/redis/go-redis/v9"
)

// RequestsKey is the Redis list shared by all API instances and workers
const RequestsKey = "requests"

// RequestQueue is the global FIFO of kiosk requests waiting for a worker
type RequestQueue struct {
	client *Client
}

func NewRequestQueue(client *Client) *RequestQueue {
	return &RequestQueue{
		client: client,
	}
}

// EnqueueRequest adds a request to the end of the global requests queue
func (rq *RequestQueue) EnqueueRequest(ctx context.Context, req *queue.Request) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := rq.client.rdb.RPush(ctx, RequestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}

	rq.client.logger.Debug("Enqueued request",
		"request_id", req.RequestID,
		"type", req.Type,
		"kiosk_id", req.KioskID.String())
	return nil
}

// RequeueRequest puts req back at the head of the queue so it is popped
// before anything enqueued after it.
func (rq *RequestQueue) RequeueRequest(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	if err := rq.client.rdb.LPush(ctx, RequestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to requeue request: %w", err)
	}
	return nil
}

// DequeueRequest removes and returns the next request from the global queue
// Returns nil if queue is empty
func (rq *RequestQueue) DequeueRequest(ctx context.Context) (*queue.Request, error) {
	result, err := rq.client.rdb.LPop(ctx, RequestsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// BlockingDequeueRequest blocks until a request is available or timeout elapses.
// A timeout or a cancelled context returns nil, nil. A zero timeout waits forever.
func (rq *RequestQueue) BlockingDequeueRequest(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := rq.client.rdb.BLPop(ctx, timeout, RequestsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// Peek returns up to limit queued requests without removing them; limit <= 0 returns all
func (rq *RequestQueue) Peek(ctx context.Context, limit int) ([]*queue.Request, error) {
	end := int64(limit - 1)
	if limit <= 0 {
		end = -1 // Get all
	}

	raw, err := rq.client.rdb.LRange(ctx, RequestsKey, 0, end).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to peek requests: %w", err)
	}

	reqs := make([]*queue.Request, 0, len(raw))
	for _, item := range raw {
		req, err := queue.FromJSON([]byte(item))
		if err != nil {
			rq.client.logger.Warn("Skipping malformed queued request", "error", err)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// RequestQueueDepth returns the number of requests in the global queue
func (rq *RequestQueue) RequestQueueDepth(ctx context.Context) (int, error) {
	count, err := rq.client.rdb.LLen(ctx, RequestsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get request queue depth: %w", err)
	}
	return int(count), nil
}
