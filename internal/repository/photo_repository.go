package repository

import (
	"context"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	*CatalogRepository[models.Photo]
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{
		CatalogRepository: NewCatalogRepository[models.Photo](db),
	}
}

// ListAdmin returns every photo, hidden ones included, with all album links.
func (r *PhotoRepository) ListAdmin(ctx context.Context) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Preload("AlbumPhotos").
		Order("order_number ASC, created_at ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepository) GetWithAlbums(ctx context.Context, id string) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).Preload("AlbumPhotos").First(&photo, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &photo, nil
}

// Delete removes the photo and its album links and renumbers the albums it was in.
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.BulkDelete(ctx, []string{id})
	return err
}

// BulkDelete removes all photos or none. The deleted rows are returned so
// the caller can clean up remote assets.
func (r *PhotoRepository) BulkDelete(ctx context.Context, ids []string) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, &models.Photo{}, ids); err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Find(&photos).Error; err != nil {
			return err
		}

		var albumIDs []string
		if err := tx.Model(&models.AlbumPhoto{}).Where("photo_id IN ?", ids).
			Distinct("album_id").Pluck("album_id", &albumIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id IN ?", ids).Delete(&models.AlbumPhoto{}).Error; err != nil {
			return err
		}
		for _, albumID := range albumIDs {
			if err := renumberAlbum(tx, albumID); err != nil {
				return err
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Photo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepository) BulkSetVisibility(ctx context.Context, ids []string, visible bool) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, &models.Photo{}, ids); err != nil {
			return err
		}
		res := tx.Model(&models.Photo{}).Where("id IN ?", ids).Update("visible", visible)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// BulkAddToAlbum appends the photos to the album, skipping those already in it.
func (r *PhotoRepository) BulkAddToAlbum(ctx context.Context, albumID string, ids []string) (int64, error) {
	var added int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, &models.Album{}, []string{albumID}); err != nil {
			return err
		}
		if err := requireRows(tx, &models.Photo{}, ids); err != nil {
			return err
		}
		n, err := appendToAlbum(tx, albumID, ids)
		added = n
		return err
	})
	return added, err
}
