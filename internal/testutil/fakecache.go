// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskboard/internal/cache"
)

// ErrCacheDown imitates an unreachable cache.
var ErrCacheDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

// FakeCache is an in-memory cache.Store with error injection.
type FakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration

	// Error injection for testing
	GetErr    error
	SetErr    error
	DeleteErr error
	PingErr   error

	Gets, Sets, Deletes int
}

var _ cache.Store = (*FakeCache)(nil)

func NewFakeCache() *FakeCache {
	return &FakeCache{
		data: make(map[string][]byte),
		ttl:  make(map[string]time.Duration),
	}
}

// NewDownCache returns a FakeCache that fails every call.
func NewDownCache() *FakeCache {
	f := NewFakeCache()
	f.GetErr = ErrCacheDown
	f.SetErr = ErrCacheDown
	f.DeleteErr = ErrCacheDown
	f.PingErr = ErrCacheDown
	return f
}

func (f *FakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gets++
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (f *FakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sets++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.data[key] = value
	f.ttl[key] = ttl
	return nil
}

func (f *FakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deletes++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.data, key)
	delete(f.ttl, key)
	return nil
}

func (f *FakeCache) Ping(ctx context.Context) error {
	return f.PingErr
}

// Raw returns the stored payload and whether the key exists.
func (f *FakeCache) Raw(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Put stores a payload directly, bypassing error injection.
func (f *FakeCache) Put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// TTL returns the ttl the key was last written with.
func (f *FakeCache) TTL(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttl[key]
}
