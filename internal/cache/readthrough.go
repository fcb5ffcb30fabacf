package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskboard/internal/logger"

	"go.uber.org/zap"
)

// ReadThrough кэширует JSON одного значения под фиксированным ключом.
// При любой ошибке кэша значение берётся из load; наружу уходят только ошибки load.
type ReadThrough[T any] struct {
	store Store
	key   string
	ttl   time.Duration
}

// NewReadThrough: при store == nil кэширование выключено.
func NewReadThrough[T any](store Store, key string, ttl time.Duration) *ReadThrough[T] {
	return &ReadThrough[T]{
		store: store,
		key:   key,
		ttl:   ttl,
	}
}

func (r *ReadThrough[T]) Key() string {
	return r.key
}

// Get отдаёт значение из кэша, а при промахе вызывает load и записывает результат обратно.
func (r *ReadThrough[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if value, ok := r.lookup(ctx); ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	r.fill(ctx, value)
	return value, nil
}

// Invalidate удаляет ключ. Если удалить не вышло, старое значение живёт до истечения TTL.
func (r *ReadThrough[T]) Invalidate(ctx context.Context) {
	if r.store == nil {
		return
	}

	if err := r.store.Delete(ctx, r.key); err != nil {
		logger.Warn("Cache: Не удалось сбросить кэш",
			zap.String("key", r.key),
			zap.Error(err))
		return
	}
	logger.Debug("Cache: Кэш сброшен", zap.String("key", r.key))
}

func (r *ReadThrough[T]) lookup(ctx context.Context) (T, bool) {
	var value T
	if r.store == nil {
		return value, false
	}

	raw, err := r.store.Get(ctx, r.key)
	switch {
	case errors.Is(err, ErrMiss):
		logger.Debug("Cache: Промах", zap.String("key", r.key))
		return value, false
	case err != nil:
		logger.Warn("Cache: Чтение недоступно, идём в хранилище",
			zap.String("key", r.key),
			zap.Error(err))
		return value, false
	case len(raw) == 0:
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("Cache: Повреждённые данные в кэше",
			zap.String("key", r.key),
			zap.Error(err))
		var zero T
		return zero, false
	}

	logger.Debug("Cache: Попадание", zap.String("key", r.key))
	return value, true
}

func (r *ReadThrough[T]) fill(ctx context.Context, value T) {
	if r.store == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Cache: Не удалось сериализовать значение",
			zap.String("key", r.key),
			zap.Error(err))
		return
	}

	if err := r.store.Set(ctx, r.key, raw, r.ttl); err != nil {
		logger.Warn("Cache: Не удалось записать в кэш",
			zap.String("key", r.key),
			zap.Error(err))
	}
}
