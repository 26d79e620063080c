package repository_test

import (
	"context"
	"testing"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/internal/testutil"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCatalogRepository[models.Sponsor](testutil.NewDB(t))

	next, err := repo.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	gold := &models.Sponsor{Name: "Gold BV", Tier: models.TierGold, Visible: true, OrderNumber: 2}
	hidden := &models.Sponsor{Name: "Hidden", Tier: models.TierBronze, Visible: false, OrderNumber: 1}
	require.NoError(t, repo.Create(ctx, gold))
	require.NoError(t, repo.Create(ctx, hidden))
	assert.NotEmpty(t, gold.ID)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Hidden", all[0].Name)

	visible, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Gold BV", visible[0].Name)

	next, err = repo.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	t.Run("reorder", func(t *testing.T) {
		err := repo.Reorder(ctx, []models.OrderItem{{ID: gold.ID, OrderNumber: 0}, {ID: hidden.ID, OrderNumber: 1}})
		require.NoError(t, err)

		all, err := repo.List(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, []string{gold.ID, hidden.ID}, []string{all[0].ID, all[1].ID})
	})

	t.Run("partial reorder is rejected", func(t *testing.T) {
		err := repo.Reorder(ctx, []models.OrderItem{{ID: hidden.ID, OrderNumber: 0}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)

		got, err := repo.GetByID(ctx, gold.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.OrderNumber)
	})

	t.Run("reorder with unknown id rolls back", func(t *testing.T) {
		err := repo.Reorder(ctx, []models.OrderItem{{ID: hidden.ID, OrderNumber: 5}, {ID: "missing", OrderNumber: 6}})
		assert.ErrorIs(t, err, utils.ErrNotFound)

		got, err := repo.GetByID(ctx, hidden.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.OrderNumber)
	})

	t.Run("update keeps false booleans", func(t *testing.T) {
		gold.Visible = false
		require.NoError(t, repo.Update(ctx, gold))
		got, err := repo.GetByID(ctx, gold.ID)
		require.NoError(t, err)
		assert.False(t, got.Visible)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, hidden.ID))
		assert.ErrorIs(t, repo.Delete(ctx, hidden.ID), utils.ErrNotFound)
		_, err := repo.GetByID(ctx, hidden.ID)
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}
