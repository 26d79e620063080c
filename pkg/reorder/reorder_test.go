package reorder_test

import (
	"errors"
	"testing"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/reorder"
	"github.com/stretchr/testify/assert"
)

func TestMove(t *testing.T) {
	for name, testcase := range map[string]struct {
		items     []string
		oldIndex  int
		newIndex  int
		then      []string
		thenMoved bool
	}{
		"dragging the last item to the top shifts the rest down": {
			items: []string{"A", "B", "C"}, oldIndex: 2, newIndex: 0,
			then: []string{"C", "A", "B"}, thenMoved: true,
		},
		"dragging the first item to the bottom shifts the rest up": {
			items: []string{"A", "B", "C"}, oldIndex: 0, newIndex: 2,
			then: []string{"B", "C", "A"}, thenMoved: true,
		},
		"dropping on the same position is a no-op": {
			items: []string{"A", "B", "C"}, oldIndex: 1, newIndex: 1,
			then: []string{"A", "B", "C"},
		},
		"an index out of range is a no-op": {
			items: []string{"A", "B"}, oldIndex: 0, newIndex: 5,
			then: []string{"A", "B"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			original := append([]string(nil), testcase.items...)
			actual, moved := reorder.Move(testcase.items, testcase.oldIndex, testcase.newIndex)
			assert.Equal(t, testcase.then, actual)
			assert.Equal(t, testcase.thenMoved, moved)
			assert.Equal(t, original, testcase.items, "input must not be modified")
		})
	}
}

func TestAssignIsDense(t *testing.T) {
	oneBased := reorder.Assign([]string{"C", "A", "B"}, 1)
	assert.Equal(t, []models.OrderItem{
		{ID: "C", OrderNumber: 1},
		{ID: "A", OrderNumber: 2},
		{ID: "B", OrderNumber: 3},
	}, oneBased)
	assert.True(t, reorder.IsDense(oneBased, 1))
	assert.NoError(t, reorder.Validate(oneBased))

	zeroBased := reorder.Assign([]string{"x", "y"}, 0)
	assert.True(t, reorder.IsDense(zeroBased, 0))
	assert.False(t, reorder.IsDense(zeroBased, 1))
}

func TestValidate(t *testing.T) {
	for name, testcase := range map[string]struct {
		when []models.OrderItem
		then error
	}{
		"empty batch": {when: nil, then: reorder.ErrEmpty},
		"missing id": {
			when: []models.OrderItem{{ID: "", OrderNumber: 1}},
			then: reorder.ErrMissingID,
		},
		"duplicate id": {
			when: []models.OrderItem{{ID: "a", OrderNumber: 1}, {ID: "a", OrderNumber: 2}},
			then: reorder.ErrDuplicateID,
		},
		"duplicate order number": {
			when: []models.OrderItem{{ID: "a", OrderNumber: 1}, {ID: "b", OrderNumber: 1}},
			then: reorder.ErrDuplicateOrder,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := reorder.Validate(testcase.when)
			assert.True(t, errors.Is(err, testcase.then), "got %v", err)
		})
	}
}
