package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "oak"
	basketPrefix = "basket"
	lockPrefix   = "lock"
)

// Nil is returned by Get when the key does not exist.
const Nil = redis.Nil

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	HGetAll(context.Context, string) *redis.MapStringStringCmd
	HSetNX(context.Context, string, string, any) *redis.BoolCmd
	Eval(context.Context, string, []string, ...any) *redis.Cmd
}

// Client wraps the redis connection helpers needed by the basket service.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Get returns a string value stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errNotInitialized
	}
	return c.store.Get(ctx, key).Result()
}

// SetNX sets a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

// Expire refreshes the TTL of every provided key.
func (c *Client) Expire(ctx context.Context, ttl time.Duration, keys ...string) error {
	if c.store == nil {
		return errNotInitialized
	}
	if ttl <= 0 {
		return nil
	}
	for _, key := range keys {
		if err := c.store.Expire(ctx, key, ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Del(ctx, keys...).Err()
}

// HGetAll returns every field of the hash stored at key.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if c.store == nil {
		return nil, errNotInitialized
	}
	return c.store.HGetAll(ctx, key).Result()
}

// HSetNX writes a hash field only if it is absent.
func (c *Client) HSetNX(ctx context.Context, key, field string, value any) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	return c.store.HSetNX(ctx, key, field, value).Result()
}

// HIncrBySeeded adds delta to field in countKey and writes seed to the same
// field in seedKey when it is absent. Both writes and the TTL refresh of
// countKey, seedKey and touch run as one script, so readers never observe a
// count without its seed.
func (c *Client) HIncrBySeeded(ctx context.Context, countKey, seedKey, field string, delta int64, seed any, ttl time.Duration, touch ...string) (int64, error) {
	if c.store == nil {
		return 0, errNotInitialized
	}
	keys := append([]string{countKey, seedKey}, touch...)
	return c.store.Eval(ctx, scriptHIncrBySeeded, keys, field, delta, seed, ttl.Milliseconds()).Int64()
}

// HDelFromAll removes field from every hash in keys in one script.
func (c *Client) HDelFromAll(ctx context.Context, field string, keys ...string) error {
	if c.store == nil {
		return errNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Eval(ctx, scriptHDelFromAll, keys, field).Err()
}

// HSetIfExists overwrites field only when it is already present and
// reports whether it wrote.
func (c *Client) HSetIfExists(ctx context.Context, key, field string, value any) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	n, err := c.store.Eval(ctx, scriptHSetIfExists, []string{key}, field, value).Int64()
	return n == 1, err
}

// ExpireIfValue refreshes the TTL of key only while it still holds value.
func (c *Client) ExpireIfValue(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	n, err := c.store.Eval(ctx, scriptExpireIfValue, []string{key}, value, ttl.Milliseconds()).Int64()
	return n == 1, err
}

// AnonymousBasketKey returns a namespaced key for one part of an anonymous basket.
func (c *Client) AnonymousBasketKey(sessionID, part string) string {
	return c.buildKey(basketPrefix, "anon", sessionID, part)
}

// LockKey returns a namespaced key for an exclusive lock.
func (c *Client) LockKey(scope, id string) string {
	return c.buildKey(lockPrefix, scope, id)
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Client) buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
