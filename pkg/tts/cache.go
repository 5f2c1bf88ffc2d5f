package tts

import (
	"context"
	"sync"
)

// Cache wraps a Provider and memoizes successful results per text.
// Failed syntheses are not cached, so the next call retries.
type Cache struct {
	provider Provider

	mu      sync.Mutex
	entries map[string]*Clip
}

// NewCache wraps p.
func NewCache(p Provider) *Cache {
	return &Cache{
		provider: p,
		entries:  make(map[string]*Clip),
	}
}

// Synthesize returns the cached result for text or asks the provider.
// Concurrent misses for the same text may both reach the provider.
func (c *Cache) Synthesize(ctx context.Context, text string) (*Clip, error) {
	c.mu.Lock()
	cached, ok := c.entries[text]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	result, err := c.provider.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[text] = result
	c.mu.Unlock()
	return result, nil
}

// Warm synthesizes every phrase up front. It stops at the first error.
func (c *Cache) Warm(ctx context.Context, phrases ...string) error {
	for _, p := range phrases {
		if _, err := c.Synthesize(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cached phrases.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close closes the wrapped provider.
func (c *Cache) Close() error {
	return c.provider.Close()
}

var _ Provider = (*Cache)(nil)
