package ingredient

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache stores parsed ingredient maps keyed by the sha256 of the table
// content. Identity is the bytes themselves: supplying a new table yields a
// new key, so stale entries can never be served, and re-supplying a previous
// table is a hit. Thread-safe.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Map
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Map)}
}

// Key returns the cache key for a table's content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Load returns the parsed map for content, parsing and storing it on first
// sight.
func (c *Cache) Load(content []byte) (*Map, error) {
	key := Key(content)

	c.mu.RLock()
	m, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := ParseMap(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = m
	c.mu.Unlock()
	return m, nil
}

// Invalidate drops the entry for content, if present.
func (c *Cache) Invalidate(content []byte) {
	key := Key(content)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
