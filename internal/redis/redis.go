package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// SnapshotKey holds the shared stats snapshot.
const SnapshotKey = "minaret:stats:snapshot"

// Client shares stats snapshots between server replicas.
type Client struct {
	rdb *redis.Client
}

func New(address, username, password string) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetJSON stores value as JSON under key.
func (c *Client) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
		return err
	}
	return nil
}

// GetUnmarshalledJSON decodes the JSON under key into dest. found is false
// when the key does not exist.
func (c *Client) GetUnmarshalledJSON(ctx context.Context, key string, dest any) (found bool, err error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *Client) LoadSnapshot(ctx context.Context) (model.StatsSnapshot, bool, error) {
	var snap model.StatsSnapshot
	found, err := c.GetUnmarshalledJSON(ctx, SnapshotKey, &snap)
	if err != nil || !found {
		return model.StatsSnapshot{}, false, err
	}
	return snap, true, nil
}

func (c *Client) SaveSnapshot(ctx context.Context, snap model.StatsSnapshot, ttl time.Duration) error {
	return c.SetJSON(ctx, SnapshotKey, snap, ttl)
}
