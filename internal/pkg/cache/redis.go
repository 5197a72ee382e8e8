package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Redis is a Cache shared by every instance pointed at the same server.
// Values are stored as JSON under a single key; expiry is left to Redis.
// The generation lives in a companion key so every instance sees the same
// counter.
type Redis[T any] struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewRedis[T any](client redis.UniversalClient, key string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, key: key, ttl: ttl}
}

func (r *Redis[T]) Get(ctx context.Context) (T, bool) {
	var out T
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

var errStaleGeneration = errors.New("cache generation moved")

func (r *Redis[T]) genKey() string {
	return r.key + ":gen"
}

func (r *Redis[T]) Generation(ctx context.Context) uint64 {
	gen, err := r.client.Get(ctx, r.genKey()).Uint64()
	if err != nil {
		return 0
	}
	return gen
}

func (r *Redis[T]) SetIfCurrent(ctx context.Context, gen uint64, value T) bool {
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, r.genKey()).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, data, r.ttl)
			return nil
		})
		return err
	}, r.genKey())
	return err == nil
}

func (r *Redis[T]) Invalidate(ctx context.Context) {
	_, _ = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey())
		pipe.Del(ctx, r.key)
		return nil
	})
}
