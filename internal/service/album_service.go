package service

import (
	"context"
	"fmt"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

type AlbumService struct {
	albumRepo *repository.AlbumRepository
	validator *utils.Validator
	log       *zap.Logger
}

func NewAlbumService(albumRepo *repository.AlbumRepository, validator *utils.Validator, log *zap.Logger) *AlbumService {
	return &AlbumService{
		albumRepo: albumRepo,
		validator: validator,
		log:       log,
	}
}

func (s *AlbumService) List(ctx context.Context, onlyVisible bool) ([]models.Album, error) {
	return s.albumRepo.ListWithCounts(ctx, onlyVisible)
}

func (s *AlbumService) Get(ctx context.Context, id string) (*models.Album, error) {
	return s.albumRepo.GetByID(ctx, id)
}

func (s *AlbumService) Create(ctx context.Context, req models.AlbumRequest) (*models.Album, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	next, err := s.albumRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		Title:        req.Title,
		Description:  req.Description,
		CoverPhotoID: req.CoverPhotoID,
		Visible:      req.Visible,
		OrderNumber:  next,
	}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	s.log.Info("album created", zap.String("album_id", album.ID))
	return album, nil
}

func (s *AlbumService) Update(ctx context.Context, id string, req models.AlbumRequest) (*models.Album, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	album.Title = req.Title
	album.Description = req.Description
	album.CoverPhotoID = req.CoverPhotoID
	album.Visible = req.Visible

	if err := s.albumRepo.Update(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return album, nil
}

func (s *AlbumService) Delete(ctx context.Context, id string) error {
	if err := s.albumRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("album deleted", zap.String("album_id", id))
	return nil
}

func (s *AlbumService) Photos(ctx context.Context, albumID string, onlyVisible bool) ([]models.Photo, error) {
	if _, err := s.albumRepo.GetByID(ctx, albumID); err != nil {
		return nil, err
	}
	return s.albumRepo.Photos(ctx, albumID, onlyVisible)
}

func (s *AlbumService) AddPhotos(ctx context.Context, albumID string, req models.AlbumPhotosRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, err
	}
	return s.albumRepo.AddPhotos(ctx, albumID, req.PhotoIDs)
}

func (s *AlbumService) RemovePhoto(ctx context.Context, albumID, photoID string) error {
	return s.albumRepo.RemovePhoto(ctx, albumID, photoID)
}

// Reorder persists the order of albums.
func (s *AlbumService) Reorder(ctx context.Context, items []models.OrderItem) error {
	if err := validateOrder(s.validator, items); err != nil {
		return err
	}
	return s.albumRepo.Reorder(ctx, items)
}

// ReorderPhotos persists the order of photos within one album.
func (s *AlbumService) ReorderPhotos(ctx context.Context, albumID string, items []models.OrderItem) error {
	if err := validateOrder(s.validator, items); err != nil {
		return err
	}
	if err := s.albumRepo.ReorderPhotos(ctx, albumID, items); err != nil {
		return err
	}
	s.log.Info("album photo order saved", zap.String("album_id", albumID), zap.Int("items", len(items)))
	return nil
}
