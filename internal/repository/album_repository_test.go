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
	"gorm.io/gorm"
)

func seedPhotos(t *testing.T, db *gorm.DB, titles ...string) []string {
	t.Helper()
	ids := make([]string, len(titles))
	for i, title := range titles {
		p := &models.Photo{URL: "https://img/" + title, Title: title, Visible: true, OrderNumber: i + 1}
		require.NoError(t, db.Create(p).Error)
		ids[i] = p.ID
	}
	return ids
}

func photoIDs(photos []models.Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.ID
	}
	return out
}

func albumOrder(t *testing.T, db *gorm.DB, albumID string) []int {
	t.Helper()
	var orders []int
	require.NoError(t, db.Model(&models.AlbumPhoto{}).Where("album_id = ?", albumID).
		Order("order_number ASC").Pluck("order_number", &orders).Error)
	return orders
}

func TestAlbumRepositoryPhotos(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAlbumRepository(db)

	album := &models.Album{Title: "2024", Visible: true, OrderNumber: 1}
	require.NoError(t, repo.Create(ctx, album))
	ids := seedPhotos(t, db, "a", "b", "c")

	added, err := repo.AddPhotos(ctx, album.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), added)

	t.Run("adding again appends only new photos", func(t *testing.T) {
		added, err := repo.AddPhotos(ctx, album.ID, ids[:1])
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("unknown photo fails", func(t *testing.T) {
		_, err := repo.AddPhotos(ctx, album.ID, []string{"nope"})
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("reorder moves last to first", func(t *testing.T) {
		err := repo.ReorderPhotos(ctx, album.ID, []models.OrderItem{
			{ID: ids[2], OrderNumber: 1},
			{ID: ids[0], OrderNumber: 2},
			{ID: ids[1], OrderNumber: 3},
		})
		require.NoError(t, err)

		photos, err := repo.Photos(ctx, album.ID, false)
		require.NoError(t, err)
		assert.Equal(t, []string{ids[2], ids[0], ids[1]}, photoIDs(photos))
		require.Len(t, photos[0].AlbumPhotos, 1)
		assert.Equal(t, album.ID, photos[0].AlbumPhotos[0].AlbumID)
	})

	t.Run("reorder rejects bad batches", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			items   []models.OrderItem
			wantErr error
		}{
			"photo not in album": {
				items:   []models.OrderItem{{ID: "does-not-exist", OrderNumber: 1}},
				wantErr: utils.ErrNotFound,
			},
			"unknown photo next to known ones": {
				items: []models.OrderItem{
					{ID: ids[0], OrderNumber: 1}, {ID: ids[1], OrderNumber: 2}, {ID: "does-not-exist", OrderNumber: 3},
				},
				wantErr: utils.ErrNotFound,
			},
			"partial batch": {
				items:   []models.OrderItem{{ID: ids[0], OrderNumber: 1}},
				wantErr: utils.ErrInvalidInput,
			},
		} {
			t.Run(name, func(t *testing.T) {
				err := repo.ReorderPhotos(ctx, album.ID, testcase.items)
				assert.ErrorIs(t, err, testcase.wantErr)

				photos, err := repo.Photos(ctx, album.ID, false)
				require.NoError(t, err)
				assert.Equal(t, []string{ids[2], ids[0], ids[1]}, photoIDs(photos))
				assert.Equal(t, []int{1, 2, 3}, albumOrder(t, db, album.ID))
			})
		}
	})

	t.Run("reorder renumbers from zero based input", func(t *testing.T) {
		err := repo.ReorderPhotos(ctx, album.ID, []models.OrderItem{
			{ID: ids[2], OrderNumber: 0},
			{ID: ids[0], OrderNumber: 1},
			{ID: ids[1], OrderNumber: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, albumOrder(t, db, album.ID))
	})

	t.Run("remove renumbers densely", func(t *testing.T) {
		require.NoError(t, repo.RemovePhoto(ctx, album.ID, ids[0]))
		assert.Equal(t, []int{1, 2}, albumOrder(t, db, album.ID))
		assert.ErrorIs(t, repo.RemovePhoto(ctx, album.ID, ids[0]), utils.ErrNotFound)
	})

	t.Run("counts", func(t *testing.T) {
		albums, err := repo.ListWithCounts(ctx, false)
		require.NoError(t, err)
		require.Len(t, albums, 1)
		assert.Equal(t, int64(2), albums[0].PhotoCount)
	})

	t.Run("delete drops links", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, album.ID))
		assert.Empty(t, albumOrder(t, db, album.ID))
		assert.ErrorIs(t, repo.Delete(ctx, album.ID), utils.ErrNotFound)
	})
}
