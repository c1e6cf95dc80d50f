// Package cache provides an optional Redis cache for hot short-code
// lookups on the redirect path. The database stays the source of truth;
// writers must invalidate after every mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wattzwebdesign/simply-qr/internal/config"
	"github.com/wattzwebdesign/simply-qr/internal/model"
)

// ErrMiss is returned when the short code has no cached entry.
var ErrMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection. Returns (nil, nil)
// when no address is configured, which disables caching.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %v", cfg.Addr, err)
	}

	return &Client{rdb: rdb, ttl: time.Duration(cfg.TTL) * time.Second}, nil
}

func key(shortCode string) string {
	return "qr:code:" + shortCode
}

// GetCode returns the cached entry for shortCode, or ErrMiss.
func (c *Client) GetCode(ctx context.Context, shortCode string) (*model.QRCode, error) {
	raw, err := c.rdb.Get(ctx, key(shortCode)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var code model.QRCode
	if err := json.Unmarshal(raw, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// SetCode stores the entry under its short code with the configured TTL.
func (c *Client) SetCode(ctx context.Context, code *model.QRCode) error {
	raw, err := json.Marshal(code)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(code.ShortCode), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for shortCode.
func (c *Client) Invalidate(ctx context.Context, shortCode string) error {
	return c.rdb.Del(ctx, key(shortCode)).Err()
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
