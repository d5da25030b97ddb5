package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list holding the game history feed, consumed
// by the replay/statistics worker.
const DefaultQueueName = "deathcards_history"

// History pushes per-game action records onto a Redis queue.
type History struct {
	rdb   *redis.Client
	queue string
}

// ActionRecord is one entry of a game's history feed.
type ActionRecord struct {
	GameID    int64          `json:"game_id"`
	Turn      int            `json:"turn"`
	PlayerID  *int64         `json:"player_id,omitempty"`
	Action    string         `json:"action"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Connect opens a Redis client and pings it before returning.
func Connect(ctx context.Context, addr string, db int, queue string) (*History, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &History{rdb: rdb, queue: queue}, nil
}

// Publish serializes the record and pushes it onto the queue.
func (h *History) Publish(ctx context.Context, record ActionRecord) error {
	if h == nil {
		return nil
	}
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := h.rdb.RPush(ctx, h.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", h.queue, err)
	}
	return nil
}

// Close releases the underlying client.
func (h *History) Close() error {
	if h == nil {
		return nil
	}
	return h.rdb.Close()
}
