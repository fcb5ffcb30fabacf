package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	// URL вида redis://host:port/db или просто host:port.
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

func DefaultOptions() Options {
	return Options{
		URL:          "redis://localhost:6379",
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   2,
	}
}

type Cache struct {
	client *redis.Client
}

var _ cache.Store = (*Cache)(nil)

// New не подключается сразу: go-redis устанавливает соединение при первой команде,
// поэтому недоступный Redis не мешает старту.
func New(opts Options) (*Cache, error) {
	clientOpts, err := parseOptions(opts.URL)
	if err != nil {
		logger.Error("Cache: Неверный адрес Redis", err)
		return nil, err
	}

	if opts.DialTimeout > 0 {
		clientOpts.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		clientOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		clientOpts.WriteTimeout = opts.WriteTimeout
	}
	if opts.MaxRetries != 0 {
		clientOpts.MaxRetries = opts.MaxRetries
	}

	logger.Info("Cache: Клиент Redis создан", zap.String("addr", clientOpts.Addr))
	return &Cache{client: redis.NewClient(clientOpts)}, nil
}

func parseOptions(raw string) (*redis.Options, error) {
	if raw == "" {
		raw = DefaultOptions().URL
	}
	if !strings.Contains(raw, "://") {
		return &redis.Options{Addr: raw}, nil
	}

	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("разбор адреса redis: %w", err)
	}
	return opts, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	logger.Info("Cache: Закрытие клиента Redis")
	return c.client.Close()
}
