package cache

import (
	"context"
	"sync"
)

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryCache is a process-local SessionCache for single-instance
// deployments and tests. Entries live until dropped.
func NewMemoryCache() SessionCache {
	return &memoryCache{entries: make(map[string]*Entry)}
}

func (c *memoryCache) Put(_ context.Context, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sessionKey(entry.GameID, entry.UserID)] = entry
	return nil
}

func (c *memoryCache) Get(_ context.Context, gameID, userID string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[sessionKey(gameID, userID)]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (c *memoryCache) Drop(_ context.Context, gameID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionKey(gameID, userID))
	return nil
}
