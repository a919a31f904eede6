package checker

import (
	"container/list"
	"sync"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// lru is a fixed-size cache evicting the least recently used entry.
type lru[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
}

func newLRU[K comparable, V any](capacity int) *lru[K, V] {
	return &lru[K, V]{
		capacity: max(capacity, 1),
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

func (c *lru[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// getOrAdd returns the cached value for key, storing the result of build
// when absent. build runs outside the lock; when two callers race, the
// first stored value wins.
func (c *lru[K, V]) getOrAdd(key K, build func() (V, error)) (V, bool, error) {
	if v, ok := c.get(key); ok {
		return v, true, nil
	}

	v, err := build()
	if err != nil {
		return v, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true, nil
	}
	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: v})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruEntry[K, V]).key)
	}
	return v, false, nil
}

func (c *lru[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lru[K, V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.order.Init()
}
