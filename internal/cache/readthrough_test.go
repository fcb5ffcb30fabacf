package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/cache/rediscache"
	"taskboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// countingLoader считает обращения к источнику
type countingLoader struct {
	calls int
	value []item
	err   error
}

func (l *countingLoader) load(ctx context.Context) ([]item, error) {
	l.calls++
	return l.value, l.err
}

func TestReadThrough_MissThenHit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFakeCache()
	rt := cache.NewReadThrough[[]item](store, "items", time.Minute)
	loader := &countingLoader{value: []item{{ID: 1, Name: "a"}}}

	first, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)
	second, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loader.calls)
	raw, ok := store.Raw("items")
	require.True(t, ok)
	assert.Equal(t, `[{"id":1,"name":"a"}]`, string(raw))
	assert.Equal(t, time.Minute, store.TTL("items"))
}

func TestReadThrough_Degrades(t *testing.T) {
	cacheDown := errors.New("connection refused")

	tests := []struct {
		name    string
		prepare func(*testutil.FakeCache)
	}{
		{
			name:    "get fails",
			prepare: func(f *testutil.FakeCache) { f.GetErr = cacheDown },
		},
		{
			name: "get and set fail",
			prepare: func(f *testutil.FakeCache) {
				f.GetErr = cacheDown
				f.SetErr = cacheDown
			},
		},
		{
			name:    "malformed payload",
			prepare: func(f *testutil.FakeCache) { f.Put("items", []byte("{not json")) },
		},
		{
			name:    "empty payload",
			prepare: func(f *testutil.FakeCache) { f.Put("items", []byte{}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeCache()
			tt.prepare(store)
			rt := cache.NewReadThrough[[]item](store, "items", time.Minute)
			loader := &countingLoader{value: []item{{ID: 2, Name: "b"}}}

			got, err := rt.Get(context.Background(), loader.load)

			require.NoError(t, err)
			assert.Equal(t, []item{{ID: 2, Name: "b"}}, got)
			assert.Equal(t, 1, loader.calls)
		})
	}
}

func TestReadThrough_LoaderErrorIsReturnedAndNotCached(t *testing.T) {
	store := testutil.NewFakeCache()
	rt := cache.NewReadThrough[[]item](store, "items", time.Minute)
	loader := &countingLoader{err: errors.New("db down")}

	_, err := rt.Get(context.Background(), loader.load)

	assert.EqualError(t, err, "db down")
	assert.Equal(t, 0, store.Sets)
}

func TestReadThrough_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFakeCache()
	rt := cache.NewReadThrough[[]item](store, "items", time.Minute)
	loader := &countingLoader{value: []item{{ID: 1}}}

	_, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)

	rt.Invalidate(ctx)
	loader.value = []item{{ID: 1}, {ID: 2}}

	got, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, loader.calls)

	store.DeleteErr = errors.New("timeout")
	assert.NotPanics(t, func() { rt.Invalidate(ctx) })
}

func TestReadThrough_NilStore(t *testing.T) {
	ctx := context.Background()
	rt := cache.NewReadThrough[[]item](nil, "items", time.Minute)
	loader := &countingLoader{value: []item{{ID: 1}}}

	_, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)
	_, err = rt.Get(ctx, loader.load)
	require.NoError(t, err)
	rt.Invalidate(ctx)

	assert.Equal(t, 2, loader.calls)
	assert.Equal(t, "items", rt.Key())
}

func TestReadThrough_RedisTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	opts := rediscache.DefaultOptions()
	opts.URL = mr.Addr()
	store, err := rediscache.New(opts)
	require.NoError(t, err)
	defer store.Close()

	rt := cache.NewReadThrough[[]item](store, "tasks:all", 60*time.Second)
	loader := &countingLoader{value: []item{}}

	got, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := mr.Get("tasks:all")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	_, err = rt.Get(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	mr.FastForward(61 * time.Second)

	_, err = rt.Get(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestReadThrough_RedisDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	opts := rediscache.DefaultOptions()
	opts.URL = mr.Addr()
	opts.MaxRetries = -1
	store, err := rediscache.New(opts)
	require.NoError(t, err)
	defer store.Close()
	mr.Close()

	rt := cache.NewReadThrough[[]item](store, "tasks:all", time.Minute)
	loader := &countingLoader{value: []item{{ID: 9}}}

	got, err := rt.Get(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 9}}, got)

	assert.NotPanics(t, func() { rt.Invalidate(ctx) })
}
