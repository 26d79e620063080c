// Package reorder implements the list reordering used by drag and drop:
// moving one element and densely renumbering the result.
package reorder

import (
	"errors"
	"fmt"

	"github.com/dkl25/admin-api/pkg/models"
)

var (
	ErrEmpty          = errors.New("reorder: no items")
	ErrMissingID      = errors.New("reorder: item without id")
	ErrDuplicateID    = errors.New("reorder: duplicate id")
	ErrDuplicateOrder = errors.New("reorder: duplicate order number")
)

// Move returns a copy of items with the element at oldIndex moved to newIndex.
// The second return value is false, and items is returned untouched, when the
// move is a no-op: same position or an index out of range.
func Move[T any](items []T, oldIndex, newIndex int) ([]T, bool) {
	n := len(items)
	if oldIndex == newIndex || oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return items, false
	}

	rest := make([]T, 0, n-1)
	rest = append(rest, items[:oldIndex]...)
	rest = append(rest, items[oldIndex+1:]...)

	out := make([]T, 0, n)
	out = append(out, rest[:newIndex]...)
	out = append(out, items[oldIndex])
	out = append(out, rest[newIndex:]...)
	return out, true
}

// Assign numbers ids densely in their given order, starting at base.
func Assign(ids []string, base int) []models.OrderItem {
	out := make([]models.OrderItem, len(ids))
	for i, id := range ids {
		out[i] = models.OrderItem{ID: id, OrderNumber: i + base}
	}
	return out
}

// Validate rejects batches that would leave duplicate ids or positions behind.
func Validate(items []models.OrderItem) error {
	if len(items) == 0 {
		return ErrEmpty
	}
	ids := make(map[string]struct{}, len(items))
	orders := make(map[int]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return ErrMissingID
		}
		if _, ok := ids[it.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
		}
		if _, ok := orders[it.OrderNumber]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateOrder, it.OrderNumber)
		}
		ids[it.ID] = struct{}{}
		orders[it.OrderNumber] = struct{}{}
	}
	return nil
}

// IsDense reports whether the order numbers are exactly base..base+len-1 in slice order.
func IsDense(items []models.OrderItem, base int) bool {
	for i, it := range items {
		if it.OrderNumber != i+base {
			return false
		}
	}
	return true
}
