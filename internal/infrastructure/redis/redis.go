package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"clicksign-esign/internal/config"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("redis: key not found")
	// ErrConflict is returned when a key kept changing under a write.
	ErrConflict = errors.New("redis: concurrent update conflict")
)

const maxWriteAttempts = 5

type RedisClient struct {
	Client *redis.Client
	logger *zap.Logger
}

func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*RedisClient, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connected successfully",
		zap.String("addr", addr),
		zap.Int("db", cfg.Redis.DB),
	)

	r := NewFromClient(client, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return r.Close()
		},
	})

	return r, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client, logger *zap.Logger) *RedisClient {
	return &RedisClient{
		Client: client,
		logger: logger,
	}
}

// GetJSON decodes the JSON stored at key into dest. It returns ErrNotFound
// when the key does not exist.
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// SaveJSON creates key with expiration, or overwrites it keeping its
// remaining lifetime when it already exists. The existence check and the
// write are a single command each, so a concurrent create cannot reset
// the expiry.
func (r *RedisClient) SaveJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		created, err := r.Client.SetNX(ctx, key, data, expiration).Result()
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		// XX fails with redis.Nil when the key expired since SETNX.
		err = r.Client.SetArgs(ctx, key, data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return ErrConflict
}

// UpdateJSON rewrites the JSON value at key with optimistic locking. update
// receives the stored bytes and returns the value to write. When key changes
// between the read and the write the transaction is dropped and update runs
// again on the fresh value. The key keeps its expiry.
func (r *RedisClient) UpdateJSON(ctx context.Context, key string, update func(data []byte) (interface{}, error)) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		value, err := update(data)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, redis.KeepTTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err := r.Client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		r.logger.Debug("Retrying conflicting update",
			zap.String("key", key),
			zap.Int("attempt", attempt+1),
		)
	}
	return ErrConflict
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}

var Module = fx.Module("redis",
	fx.Provide(NewRedisClient),
)
