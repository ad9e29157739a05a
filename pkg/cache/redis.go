package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed suppression store. It is the
// right choice when several processes share one send key and duplicates
// must be suppressed across all of them.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

func (c *RedisConfig) applyDefaults() {
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
}

func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("redis: missing Addr")
	}
	return nil
}

type redisStore struct {
	client *redis.Client
}

type RedisOption func(*redis.Options)

func WithPoolSize(size int) RedisOption {
	return func(o *redis.Options) {
		o.PoolSize = size
	}
}

func WithReadTimeout(timeout time.Duration) RedisOption {
	return func(o *redis.Options) {
		o.ReadTimeout = timeout
	}
}

func WithWriteTimeout(timeout time.Duration) RedisOption {
	return func(o *redis.Options) {
		o.WriteTimeout = timeout
	}
}

func NewRedisStore(cfg RedisConfig, opts ...RedisOption) (Store, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}

	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return val, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}

	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	result := r.client.Del(ctx, key)
	if err := result.Err(); err != nil {
		return err
	}
	if result.Val() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (r *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
