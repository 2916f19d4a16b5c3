package cag

import (
	"container/list"
	"sync"
)

// StaleGraphCache is a bounded LRU of per-project stale-graph id lists.
// It is an explicit component with its own lifecycle, injected into the
// Service rather than referenced as ambient state; after Close every
// operation is a no-op miss.
type StaleGraphCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[string]*list.Element
	closed  bool
}

type cacheEntry struct {
	projectID string
	ids       []string
}

// NewStaleGraphCache creates a cache holding at most cap projects.
func NewStaleGraphCache(cap int) *StaleGraphCache {
	if cap <= 0 {
		cap = 64
	}
	return &StaleGraphCache{
		cap:     cap,
		order:   list.New(),
		entries: make(map[string]*list.Element, cap),
	}
}

// Get returns the cached stale ids for a project, marking it most
// recently used.
func (c *StaleGraphCache) Get(projectID string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	el, ok := c.entries[projectID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).ids, true
}

// Put stores the stale ids for a project, evicting the least recently
// used project when full.
func (c *StaleGraphCache) Put(projectID string, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if el, ok := c.entries[projectID]; ok {
		el.Value.(*cacheEntry).ids = ids
		c.order.MoveToFront(el)
		return
	}
	c.entries[projectID] = c.order.PushFront(&cacheEntry{projectID: projectID, ids: ids})
	for c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).projectID)
	}
}

// Invalidate drops a project's entry.
func (c *StaleGraphCache) Invalidate(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if el, ok := c.entries[projectID]; ok {
		c.order.Remove(el)
		delete(c.entries, projectID)
	}
}

// Len reports how many projects are cached.
func (c *StaleGraphCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close tears the cache down; subsequent calls are no-ops.
func (c *StaleGraphCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.order.Init()
	c.entries = map[string]*list.Element{}
}
