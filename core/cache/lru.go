package cache

import (
	"container/list"
	"sync"
	"time"
)

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Config contains LRU configuration options.
type Config[K comparable, V any] struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is evicted or removed.
	OnEvict func(key K, value V)
}

// DefaultConfig returns a default LRU configuration.
func DefaultConfig[K comparable, V any]() Config[K, V] {
	return Config[K, V]{MaxSize: 256}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRU is a thread-safe least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config[K, V]
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRU creates an LRU cache with the given configuration.
func NewLRU[K comparable, V any](config Config[K, V]) *LRU[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &LRU[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	e := el.Value.(*entry[K, V])
	if c.config.TTL > 0 && time.Now().After(e.expiresAt) {
		c.removeElement(el)
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.evictList.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.config.TTL > 0 {
		expires = time.Now().Add(c.config.TTL)
	}

	if el, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(el)
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expires
		return
	}

	c.entries[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expires})
	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}
}

// Remove removes a value.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
}

// Clear removes all entries without calling OnEvict.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	e := el.Value.(*entry[K, V])
	delete(c.entries, e.key)

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}
