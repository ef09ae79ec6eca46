package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func TestRememberLoadsOnceThenServesCached(t *testing.T) {
	c := newMapCache()
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Hydrating Mist"}, nil
	}

	first, err := Remember(context.Background(), c, "products:list", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(context.Background(), c, "products:list", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.DeletePrefix(context.Background(), "products:"))
	_, err = Remember(context.Background(), c, "products:list", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	c := newMapCache()
	boom := errors.New("boom")
	_, err := Remember(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok, _ := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestNoopNeverHits(t *testing.T) {
	n := NewNoop()
	require.NoError(t, n.Set(context.Background(), "k", []byte("v"), time.Second))
	_, ok, err := n.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
