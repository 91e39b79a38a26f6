package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

const keyPrefix = "session:"

// RedisStore is a Redis-backed implementation of the Store interface.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions extends redis.Options with the configuration this service
// cares about.
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// NewRedisStore creates a RedisStore and verifies connectivity.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Load retrieves the session snapshot for a user id.
func (s *RedisStore) Load(ctx context.Context, userID string) (*models.WorkflowSession, error) {
	key := keyPrefix + userID
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: key=%s", ErrNotFound, key)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}

	var sess models.WorkflowSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return &sess, nil
}

// Save persists the snapshot with the given TTL.
func (s *RedisStore) Save(ctx context.Context, userID string, sess *models.WorkflowSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session for %s: %w", userID, err)
	}
	key := keyPrefix + userID
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in Redis: %w", key, err)
	}
	return nil
}

// Delete removes the session for a user id.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", userID, err)
	}
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
