package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

const cargoLineTTL = 24 * time.Hour

// CargoCache is a best-effort redis snapshot cache for cargo line reads.
// A nil *CargoCache is a no-op, so the service runs without redis.
type CargoCache struct {
	client *redis.Client
}

// New connects to redis and returns a CargoCache. An empty addr disables
// caching and returns nil without error.
func New(ctx context.Context, addr string) (*CargoCache, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &CargoCache{client: client}, nil
}

// Close releases the redis connection.
func (c *CargoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func cargoLineKey(cargoLineID int64) string {
	return fmt.Sprintf("cargo_line:%d", cargoLineID)
}

// CacheCargoLine stores a line snapshot with its fragment breakdown.
func (c *CargoCache) CacheCargoLine(ctx context.Context, line *domain.CargoLine) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cargoLineKey(line.ID), data, cargoLineTTL).Err()
}

// GetCachedCargoLine returns a cached snapshot, or (nil, nil) on cache miss.
func (c *CargoCache) GetCachedCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, cargoLineKey(cargoLineID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var line domain.CargoLine
	if err := json.Unmarshal(data, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// InvalidateCargoLines drops cached snapshots after an engine write.
func (c *CargoCache) InvalidateCargoLines(ctx context.Context, cargoLineIDs ...int64) error {
	if c == nil || len(cargoLineIDs) == 0 {
		return nil
	}
	keys := make([]string, len(cargoLineIDs))
	for i, id := range cargoLineIDs {
		keys[i] = cargoLineKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
