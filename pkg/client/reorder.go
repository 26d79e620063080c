package client

import (
	"context"
	"sync"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/reorder"
	"go.uber.org/zap"
)

// SaveOrderFunc persists a dense order, usually one of the Client.Reorder methods.
type SaveOrderFunc func(ctx context.Context, items []models.OrderItem) error

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Reorderer keeps a locally ordered list for drag and drop. A move is applied
// locally first and then persisted; when saving fails the authoritative order
// is fetched again. Failed saves are not retried.
type Reorderer[T any] struct {
	mu    sync.Mutex
	items []T
	idOf  func(T) string
	base  int
	save  SaveOrderFunc
	fetch FetchFunc[T]
	log   *zap.Logger
	// setOrder, when set, writes the saved order number into each item
	setOrder func(item *T, orderNumber int)
}

// NewReorderer numbers items from base, 0 or 1 depending on the endpoint.
func NewReorderer[T any](idOf func(T) string, base int, save SaveOrderFunc, fetch FetchFunc[T], log *zap.Logger) *Reorderer[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reorderer[T]{idOf: idOf, base: base, save: save, fetch: fetch, log: log}
}

// WithOrderSetter keeps the items' own order numbers in line with what was
// saved, e.g. (*models.Sponsor).SetOrderNumber. Without it only the slice
// order changes until the next Load.
func (r *Reorderer[T]) WithOrderSetter(fn func(item *T, orderNumber int)) *Reorderer[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setOrder = fn
	return r
}

func (r *Reorderer[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

func (r *Reorderer[T]) Set(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]T(nil), items...)
}

// Load replaces the local list with the server's order.
func (r *Reorderer[T]) Load(ctx context.Context) error {
	items, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	r.Set(items)
	return nil
}

// Move drags the item at oldIndex to newIndex. Dropping an item where it
// already is does nothing and sends nothing. The returned error is the save
// failure, after the list has been reloaded.
func (r *Reorderer[T]) Move(ctx context.Context, oldIndex, newIndex int) error {
	r.mu.Lock()
	moved, ok := reorder.Move(r.items, oldIndex, newIndex)
	if !ok {
		r.mu.Unlock()
		return nil
	}
	r.items = moved
	ids := make([]string, len(moved))
	for i, item := range moved {
		ids[i] = r.idOf(item)
	}
	r.mu.Unlock()

	assigned := reorder.Assign(ids, r.base)
	err := r.save(ctx, assigned)
	if err == nil {
		r.applyOrder(assigned)
		return nil
	}

	r.log.Error("failed to save order", zap.Int("from", oldIndex), zap.Int("to", newIndex), zap.Error(err))
	if loadErr := r.Load(ctx); loadErr != nil {
		r.log.Error("failed to reload order", zap.Error(loadErr))
	}
	return err
}

func (r *Reorderer[T]) applyOrder(assigned []models.OrderItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setOrder == nil {
		return
	}
	byID := make(map[string]int, len(assigned))
	for _, it := range assigned {
		byID[it.ID] = it.OrderNumber
	}
	for i := range r.items {
		if n, ok := byID[r.idOf(r.items[i])]; ok {
			r.setOrder(&r.items[i], n)
		}
	}
}
