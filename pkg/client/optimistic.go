package client

import (
	"context"
	"errors"
	"sync"
)

// Cache holds the last known copy of a list shared by the admin views.
type Cache[T any] struct {
	mu    sync.RWMutex
	items []T
	clone func(T) T
}

// NewCache copies items with clone on every snapshot; nil means a shallow copy.
func NewCache[T any](clone func(T) T) *Cache[T] {
	return &Cache[T]{clone: clone}
}

func (c *Cache[T]) Get() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

func (c *Cache[T]) Set(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}

// Update rewrites the cached list in place under the write lock.
func (c *Cache[T]) Update(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.copyLocked())
}

func (c *Cache[T]) copyLocked() []T {
	if c.items == nil {
		return nil
	}
	out := make([]T, len(c.items))
	for i, item := range c.items {
		if c.clone != nil {
			item = c.clone(item)
		}
		out[i] = item
	}
	return out
}

// Mutation is an optimistic cache update: Apply rewrites the cache before
// Commit talks to the server. When Commit fails the snapshot taken before
// Apply is restored. Refetch runs afterwards in both cases.
type Mutation[T any] struct {
	Apply   func([]T) []T
	Commit  func(ctx context.Context) error
	Refetch func(ctx context.Context) ([]T, error)
}

// Run executes m against the cache and returns the commit error joined with
// any refetch error.
func (c *Cache[T]) Run(ctx context.Context, m Mutation[T]) error {
	snapshot := c.Get()
	if m.Apply != nil {
		c.Update(m.Apply)
	}

	err := m.Commit(ctx)
	if err != nil {
		c.Set(snapshot)
	}

	if m.Refetch != nil {
		items, fetchErr := m.Refetch(ctx)
		if fetchErr != nil {
			return errors.Join(err, fetchErr)
		}
		c.Set(items)
	}
	return err
}
