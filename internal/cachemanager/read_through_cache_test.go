package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) load(_ context.Context, id string) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return []string{id + "-a", id + "-b"}, nil
}

func newViews() *InMemoryCacheManager[[]string] {
	return NewInMemoryCacheManager[[]string]("views", DefaultExpiration, DefaultCleanupInterval)
}

func TestReadThroughCache_LoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	rt := NewReadThroughCache[[]string, string](newViews(), loader.load, time.Minute)

	first, err := rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)
	second, err := rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, loader.calls)
}

func TestReadThroughCache_ZeroTTLSkipsCache(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	cache := newViews()
	rt := NewReadThroughCache[[]string, string](cache, loader.load, 0)

	_, err := rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)
	_, err = rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)

	require.Equal(t, 2, loader.calls)
	require.Zero(t, cache.Len())
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{err: errors.New("unknown student")}
	cache := newViews()
	rt := NewReadThroughCache[[]string, string](cache, loader.load, time.Minute)

	_, err := rt.Get(ctx, "courses:S9999", "S9999")
	require.EqualError(t, err, "unknown student")
	require.Zero(t, cache.Len())

	loader.err = nil
	got, err := rt.Get(ctx, "courses:S9999", "S9999")
	require.NoError(t, err)
	require.Equal(t, []string{"S9999-a", "S9999-b"}, got)
	require.Equal(t, 2, loader.calls)
}

func TestReadThroughCache_FlushForcesReload(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	cache := newViews()
	rt := NewReadThroughCache[[]string, string](cache, loader.load, time.Minute)

	_, err := rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)
	cache.Flush(ctx)
	_, err = rt.Get(ctx, "courses:S1000", "S1000")
	require.NoError(t, err)

	require.Equal(t, 2, loader.calls)
}
