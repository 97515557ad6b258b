package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"example.com/kiosk/pkg/state"
	"example.com/kiosk/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func displayKey(id uuid.UUID) string {
	return "display:" + id.String()
}

// Display operations (Redis-backed)

func (r *RedisStorage) SaveDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error {
	if ds == nil {
		return errors.New("display state cannot be nil")
	}
	ds.UpdatedAt = time.Now()

	data, err := json.Marshal(ds)
	if err != nil {
		r.logger.Error("Failed to marshal display", "kiosk_id", id, "error", err)
		return fmt.Errorf("failed to marshal display: %w", err)
	}

	if err := r.client.Set(ctx, displayKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save display", "kiosk_id", id, "error", err)
		return fmt.Errorf("failed to save display: %w", err)
	}

	return nil
}

// UpdateDisplay writes with SET XX so it never recreates a deleted display.
func (r *RedisStorage) UpdateDisplay(ctx context.Context, id uuid.UUID, ds *state.DisplayState) error {
	if ds == nil {
		return errors.New("display state cannot be nil")
	}
	ds.UpdatedAt = time.Now()

	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to marshal display: %w", err)
	}

	ok, err := r.client.SetXX(ctx, displayKey(id), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Failed to update display", "kiosk_id", id, "error", err)
		return fmt.Errorf("failed to update display: %w", err)
	}
	if !ok {
		r.logger.Debug("Display deleted before update", "kiosk_id", id)
		return storage.ErrDisplayNotFound
	}
	return nil
}

func (r *RedisStorage) LoadDisplay(ctx context.Context, id uuid.UUID) (*state.DisplayState, error) {
	data, err := r.client.Get(ctx, displayKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Display not found", "kiosk_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load display", "kiosk_id", id, "error", err)
		return nil, fmt.Errorf("failed to load display: %w", err)
	}

	var ds state.DisplayState
	if err := json.Unmarshal(data, &ds); err != nil {
		r.logger.Error("Failed to unmarshal display", "kiosk_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal display: %w", err)
	}

	return &ds, nil
}

func (r *RedisStorage) DeleteDisplay(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, displayKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete display", "kiosk_id", id, "error", err)
		return fmt.Errorf("failed to delete display: %w", err)
	}
	return nil
}
