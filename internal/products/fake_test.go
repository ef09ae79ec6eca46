package products

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]Product
	order []string
	lists int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Product{}}
}

func (m *memoryRepo) Create(_ context.Context, item Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return Product{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (m *memoryRepo) List(_ context.Context, filter ListFilter) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []Product{}
	for _, id := range m.order {
		item, ok := m.items[id]
		if !ok {
			continue
		}
		if filter.Status != "" && string(item.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Store != "" && item.Store != filter.Store {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Update merges set through a bson round trip, like $set on the stored
// document.
func (m *memoryRepo) Update(_ context.Context, id string, set bson.M) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return Product{}, mongo.ErrNoDocuments
	}
	raw, err := bson.Marshal(item)
	if err != nil {
		return Product{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return Product{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return Product{}, err
	}
	var updated Product
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return Product{}, err
	}
	m.items[id] = updated
	return updated, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memoryRepo) Bump(_ context.Context, id, counter string) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return Product{}, mongo.ErrNoDocuments
	}
	switch counter {
	case counterViews:
		item.Views++
	case counterAddToCart:
		item.AddToCartCount++
	}
	item.ConversionRate = ConversionRate(item.Views, item.AddToCartCount)
	m.items[id] = item
	return item, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type prefixRewriter struct {
	from, to string
}

func (p prefixRewriter) Rewrite(url string) string {
	if strings.HasPrefix(url, p.from) {
		return p.to + strings.TrimPrefix(url, p.from)
	}
	return url
}
