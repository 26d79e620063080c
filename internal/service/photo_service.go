package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/alitto/pond/v2"
	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

type PhotoService struct {
	photoRepo *repository.PhotoRepository
	media     *MediaService
	validator *utils.Validator
	workers   int
	log       *zap.Logger
}

func NewPhotoService(
	photoRepo *repository.PhotoRepository,
	media *MediaService,
	validator *utils.Validator,
	workers int,
	log *zap.Logger,
) *PhotoService {
	if workers <= 0 {
		workers = 1
	}
	return &PhotoService{
		photoRepo: photoRepo,
		media:     media,
		validator: validator,
		workers:   workers,
		log:       log,
	}
}

func (s *PhotoService) ListAdmin(ctx context.Context) ([]models.Photo, error) {
	return s.photoRepo.ListAdmin(ctx)
}

func (s *PhotoService) ListPublic(ctx context.Context) ([]models.Photo, error) {
	return s.photoRepo.List(ctx, true)
}

func (s *PhotoService) Get(ctx context.Context, id string) (*models.Photo, error) {
	return s.photoRepo.GetWithAlbums(ctx, id)
}

// Upload validates the file, stores it at the media host and creates the row
// at the end of the photo list.
func (s *PhotoService) Upload(ctx context.Context, file *multipart.FileHeader, req models.PhotoRequest) (*models.Photo, error) {
	if req.Title == "" && file != nil {
		req.Title = file.Filename
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	img, err := s.media.Upload(ctx, file, "photos")
	if err != nil {
		return nil, err
	}

	next, err := s.photoRepo.NextOrderNumber(ctx)
	if err != nil {
		_ = s.media.Remove(ctx, img.PublicID, img.ArchiveKey)
		return nil, err
	}

	photo := &models.Photo{
		URL:         img.SecureURL,
		PublicID:    img.PublicID,
		ArchiveKey:  img.ArchiveKey,
		Title:       req.Title,
		AltText:     req.AltText,
		Description: req.Description,
		Year:        req.Year,
		Visible:     req.Visible,
		OrderNumber: next,
	}
	if img.ThumbnailURL != "" {
		thumb := img.ThumbnailURL
		photo.ThumbnailURL = &thumb
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Cleanup
		_ = s.media.Remove(ctx, img.PublicID, img.ArchiveKey)
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	s.log.Info("photo uploaded", zap.String("photo_id", photo.ID), zap.String("public_id", photo.PublicID))
	return photo, nil
}

func (s *PhotoService) Update(ctx context.Context, id string, req models.PhotoRequest) (*models.Photo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photo.Title = req.Title
	photo.AltText = req.AltText
	photo.Description = req.Description
	photo.Year = req.Year
	photo.Visible = req.Visible

	if err := s.photoRepo.Update(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoService) Delete(ctx context.Context, id string) error {
	_, err := s.BulkDelete(ctx, []string{id})
	return err
}

func (s *PhotoService) Reorder(ctx context.Context, items []models.OrderItem) error {
	if err := validateOrder(s.validator, items); err != nil {
		return err
	}
	return s.photoRepo.Reorder(ctx, items)
}

// BulkDelete removes the rows in one transaction and then the remote assets.
// Remote cleanup is best effort: failures are logged, the rows stay deleted.
func (s *PhotoService) BulkDelete(ctx context.Context, ids []string) (*models.BulkResult, error) {
	if err := s.validator.Struct(models.BulkIDsRequest{IDs: ids}); err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.removeAssets(ctx, photos)
	s.log.Info("photos deleted", zap.Int("count", len(photos)))
	return &models.BulkResult{Affected: int64(len(photos))}, nil
}

func (s *PhotoService) BulkSetVisibility(ctx context.Context, req models.BulkVisibilityRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	n, err := s.photoRepo.BulkSetVisibility(ctx, req.IDs, req.Visible)
	if err != nil {
		return nil, err
	}
	return &models.BulkResult{Affected: n}, nil
}

func (s *PhotoService) BulkAddToAlbum(ctx context.Context, req models.BulkAlbumRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	n, err := s.photoRepo.BulkAddToAlbum(ctx, req.AlbumID, req.IDs)
	if err != nil {
		return nil, err
	}
	return &models.BulkResult{Affected: n}, nil
}

func (s *PhotoService) removeAssets(ctx context.Context, photos []models.Photo) {
	pool := pond.NewPool(s.workers)
	for _, p := range photos {
		pool.Submit(func() {
			if err := s.media.Remove(ctx, p.PublicID, p.ArchiveKey); err != nil {
				s.log.Warn("remote cleanup failed", zap.String("photo_id", p.ID), zap.Error(err))
			}
		})
	}
	_ = pool.Stop().Wait()
}
