package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	return nil, errors.New("key not found")
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

type countingCommunityRepo struct {
	byID  map[string]*entities.Community
	calls int
}

func (r *countingCommunityRepo) GetByID(_ context.Context, id string) (*entities.Community, error) {
	r.calls++
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func (r *countingCommunityRepo) List(_ context.Context, _ repositories.CommunityFilter) ([]*entities.Community, error) {
	r.calls++
	out := make([]*entities.Community, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *countingCommunityRepo) ListByCity(_ context.Context, _ string) ([]*entities.Community, error) {
	return r.List(context.Background(), repositories.CommunityFilter{})
}

func (r *countingCommunityRepo) CountByCity(_ context.Context, _ string) (int, error) {
	r.calls++
	return len(r.byID), nil
}

func waitForCacheKey(t *testing.T, cache *fakeCache, key string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ok, _ := cache.Exists(context.Background(), key); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("cache key %s never written", key)
}

func TestCachedCommunityAdapter_GetByID_ReadThrough(t *testing.T) {
	inner := &countingCommunityRepo{byID: map[string]*entities.Community{
		"c-1": {ID: "c-1", Name: "Westlake Commons", City: "Westlake"},
	}}
	cache := newFakeCache()
	adapter := NewCachedCommunityAdapter(inner, cache)

	first, err := adapter.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Westlake Commons", first.Name)
	assert.Equal(t, 1, inner.calls)

	waitForCacheKey(t, cache, communityCacheKey("c-1"))

	second, err := adapter.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Westlake Commons", second.Name)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedCommunityAdapter_CountByCity(t *testing.T) {
	inner := &countingCommunityRepo{byID: map[string]*entities.Community{
		"c-1": {ID: "c-1", City: "Parma"},
		"c-2": {ID: "c-2", City: "Parma"},
	}}
	cache := newFakeCache()
	adapter := NewCachedCommunityAdapter(inner, cache)

	count, err := adapter.CountByCity(context.Background(), "Parma")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	waitForCacheKey(t, cache, communityCountCacheKey("Parma"))

	count, err = adapter.CountByCity(context.Background(), "Parma")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedCommunityAdapter_ErrorsPassThrough(t *testing.T) {
	inner := &countingCommunityRepo{byID: map[string]*entities.Community{}}
	adapter := NewCachedCommunityAdapter(inner, newFakeCache())

	_, err := adapter.GetByID(context.Background(), "missing")
	assert.Error(t, err)
}
