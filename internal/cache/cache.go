// Package cache - необязательный слой кэша: контракт Store и декоратор ReadThrough,
// который не выпускает ошибки кэша наружу.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss - ключа нет или истёк TTL.
var ErrMiss = errors.New("cache: miss")

// Store - хранилище ключ/значение с TTL. Любая ошибка для вызывающего означает "кэша нет".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
