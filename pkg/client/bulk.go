package client

import (
	"context"
	"time"

	"github.com/dkl25/admin-api/pkg/models"
	"go.uber.org/zap"
)

// PhotoAPI is the part of Client the bulk photo operations use.
type PhotoAPI interface {
	ListAdminPhotos(ctx context.Context) ([]models.Photo, error)
	BulkDeletePhotos(ctx context.Context, ids []string) (models.BulkResult, error)
	BulkSetPhotoVisibility(ctx context.Context, ids []string, visible bool) (models.BulkResult, error)
	BulkAddPhotosToAlbum(ctx context.Context, ids []string, albumID string) (models.BulkResult, error)
}

// BulkOps runs the photo bulk actions optimistically against a shared cache.
type BulkOps struct {
	api   PhotoAPI
	cache *Cache[models.Photo]
	log   *zap.Logger
}

func NewBulkOps(api PhotoAPI, cache *Cache[models.Photo], log *zap.Logger) *BulkOps {
	if cache == nil {
		cache = NewPhotoCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkOps{api: api, cache: cache, log: log}
}

// NewPhotoCache copies the album links too, so a reverted snapshot is not
// affected by an optimistic append.
func NewPhotoCache() *Cache[models.Photo] {
	return NewCache(func(p models.Photo) models.Photo {
		p.AlbumPhotos = append([]models.AlbumPhoto(nil), p.AlbumPhotos...)
		return p
	})
}

func (b *BulkOps) Photos() []models.Photo {
	return b.cache.Get()
}

func (b *BulkOps) Refresh(ctx context.Context) error {
	photos, err := b.api.ListAdminPhotos(ctx)
	if err != nil {
		return err
	}
	b.cache.Set(photos)
	return nil
}

func (b *BulkOps) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	selected := idSet(ids)
	return b.run(ctx, "delete", ids, func(photos []models.Photo) []models.Photo {
		kept := photos[:0]
		for _, p := range photos {
			if _, ok := selected[p.ID]; !ok {
				kept = append(kept, p)
			}
		}
		return kept
	}, func(ctx context.Context) error {
		_, err := b.api.BulkDeletePhotos(ctx, ids)
		return err
	})
}

func (b *BulkOps) SetVisibility(ctx context.Context, ids []string, visible bool) error {
	if len(ids) == 0 {
		return nil
	}
	selected := idSet(ids)
	return b.run(ctx, "visibility", ids, func(photos []models.Photo) []models.Photo {
		for i := range photos {
			if _, ok := selected[photos[i].ID]; ok {
				photos[i].Visible = visible
			}
		}
		return photos
	}, func(ctx context.Context) error {
		_, err := b.api.BulkSetPhotoVisibility(ctx, ids, visible)
		return err
	})
}

// AddToAlbum links the photos to albumID. The optimistic links carry no
// position; the refetch brings the real one.
func (b *BulkOps) AddToAlbum(ctx context.Context, ids []string, albumID string) error {
	if len(ids) == 0 {
		return nil
	}
	selected := idSet(ids)
	now := time.Now()
	return b.run(ctx, "add_to_album", ids, func(photos []models.Photo) []models.Photo {
		for i := range photos {
			if _, ok := selected[photos[i].ID]; !ok || inAlbum(photos[i], albumID) {
				continue
			}
			photos[i].AlbumPhotos = append(photos[i].AlbumPhotos, models.AlbumPhoto{
				AlbumID:   albumID,
				PhotoID:   photos[i].ID,
				CreatedAt: now,
			})
		}
		return photos
	}, func(ctx context.Context) error {
		_, err := b.api.BulkAddPhotosToAlbum(ctx, ids, albumID)
		return err
	})
}

func (b *BulkOps) run(ctx context.Context, op string, ids []string, apply func([]models.Photo) []models.Photo, commit func(context.Context) error) error {
	err := b.cache.Run(ctx, Mutation[models.Photo]{
		Apply:   apply,
		Commit:  commit,
		Refetch: b.api.ListAdminPhotos,
	})
	if err != nil {
		b.log.Error("bulk photo operation failed", zap.String("op", op), zap.Int("count", len(ids)), zap.Error(err))
	}
	return err
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func inAlbum(p models.Photo, albumID string) bool {
	for _, ap := range p.AlbumPhotos {
		if ap.AlbumID == albumID {
			return true
		}
	}
	return false
}
