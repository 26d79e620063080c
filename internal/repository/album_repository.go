package repository

import (
	"context"
	"fmt"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumRepository struct {
	*CatalogRepository[models.Album]
}

func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{
		CatalogRepository: NewCatalogRepository[models.Album](db),
	}
}

type albumCount struct {
	AlbumID string
	Count   int64
}

// ListWithCounts lists albums in display order and fills PhotoCount.
func (r *AlbumRepository) ListWithCounts(ctx context.Context, onlyVisible bool) ([]models.Album, error) {
	albums, err := r.List(ctx, onlyVisible)
	if err != nil {
		return nil, err
	}

	var counts []albumCount
	err = r.db.WithContext(ctx).Model(&models.AlbumPhoto{}).
		Select("album_id, COUNT(*) AS count").
		Group("album_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byAlbum := make(map[string]int64, len(counts))
	for _, c := range counts {
		byAlbum[c.AlbumID] = c.Count
	}
	for i := range albums {
		albums[i].PhotoCount = byAlbum[albums[i].ID]
	}
	return albums, nil
}

// Delete removes the album and its photo links. Photos themselves stay.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&models.AlbumPhoto{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Album{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

// Photos returns the photos of an album in album order, each with only its
// link to this album preloaded.
func (r *AlbumRepository) Photos(ctx context.Context, albumID string, onlyVisible bool) ([]models.Photo, error) {
	var photos []models.Photo
	q := r.db.WithContext(ctx).
		Joins("JOIN album_photos ON album_photos.photo_id = photos.id AND album_photos.album_id = ?", albumID).
		Preload("AlbumPhotos", "album_id = ?", albumID).
		Order("album_photos.order_number ASC")
	if onlyVisible {
		q = q.Where("photos.visible = ?", true)
	}
	if err := q.Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// AddPhotos appends photos to the end of the album. Photos already in the
// album keep their position. Returns the number of new links.
func (r *AlbumRepository) AddPhotos(ctx context.Context, albumID string, photoIDs []string) (int64, error) {
	var added int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, &models.Album{}, []string{albumID}); err != nil {
			return err
		}
		if err := requireRows(tx, &models.Photo{}, photoIDs); err != nil {
			return err
		}
		n, err := appendToAlbum(tx, albumID, photoIDs)
		added = n
		return err
	})
	return added, err
}

// RemovePhoto unlinks a photo and closes the gap it leaves.
func (r *AlbumRepository) RemovePhoto(ctx context.Context, albumID, photoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("album_id = ? AND photo_id = ?", albumID, photoID).Delete(&models.AlbumPhoto{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return renumberAlbum(tx, albumID)
	})
}

// ReorderPhotos rewrites the positions of the album's photos. The batch must
// list every photo of the album; the result is renumbered to 1..n.
func (r *AlbumRepository) ReorderPhotos(ctx context.Context, albumID string, items []models.OrderItem) error {
	ids := make([]string, len(items))
	links := make([]models.AlbumPhoto, len(items))
	for i, it := range items {
		ids[i] = it.ID
		links[i] = models.AlbumPhoto{AlbumID: albumID, PhotoID: it.ID, OrderNumber: it.OrderNumber}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, &models.Album{}, []string{albumID}); err != nil {
			return err
		}

		var linked int64
		if err := tx.Model(&models.AlbumPhoto{}).
			Where("album_id = ? AND photo_id IN ?", albumID, ids).
			Count(&linked).Error; err != nil {
			return err
		}
		if linked != int64(len(ids)) {
			return fmt.Errorf("%w: %d of %d photos are in album %s", utils.ErrNotFound, linked, len(ids), albumID)
		}
		var total int64
		if err := tx.Model(&models.AlbumPhoto{}).Where("album_id = ?", albumID).Count(&total).Error; err != nil {
			return err
		}
		if total != linked {
			return fmt.Errorf("%w: order covers %d of %d album photos", utils.ErrInvalidInput, linked, total)
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "album_id"}, {Name: "photo_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"order_number"}),
		}).Create(&links).Error
		if err != nil {
			return err
		}
		return renumberAlbum(tx, albumID)
	})
}

func appendToAlbum(tx *gorm.DB, albumID string, photoIDs []string) (int64, error) {
	var existing []string
	if err := tx.Model(&models.AlbumPhoto{}).Where("album_id = ?", albumID).Pluck("photo_id", &existing).Error; err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(existing))
	for _, id := range existing {
		present[id] = true
	}

	var max int
	if err := tx.Model(&models.AlbumPhoto{}).Where("album_id = ?", albumID).
		Select("COALESCE(MAX(order_number), 0)").Scan(&max).Error; err != nil {
		return 0, err
	}

	var links []models.AlbumPhoto
	for _, id := range photoIDs {
		if present[id] {
			continue
		}
		present[id] = true
		max++
		links = append(links, models.AlbumPhoto{AlbumID: albumID, PhotoID: id, OrderNumber: max})
	}
	if len(links) == 0 {
		return 0, nil
	}
	if err := tx.Create(&links).Error; err != nil {
		return 0, err
	}
	return int64(len(links)), nil
}

// renumberAlbum rewrites the album's order numbers to 1..n keeping their order.
func renumberAlbum(tx *gorm.DB, albumID string) error {
	var links []models.AlbumPhoto
	if err := tx.Where("album_id = ?", albumID).Order("order_number ASC, photo_id ASC").Find(&links).Error; err != nil {
		return err
	}
	for i, l := range links {
		if l.OrderNumber == i+1 {
			continue
		}
		err := tx.Model(&models.AlbumPhoto{}).
			Where("album_id = ? AND photo_id = ?", albumID, l.PhotoID).
			Update("order_number", i+1).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// requireRows fails with ErrNotFound unless every id exists in model's table.
func requireRows(tx *gorm.DB, model interface{}, ids []string) error {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return fmt.Errorf("%w: %d of %d ids exist", utils.ErrNotFound, count, len(unique))
	}
	return nil
}
