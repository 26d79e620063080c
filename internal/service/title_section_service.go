package service

import (
	"context"
	"mime/multipart"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
)

type TitleSectionService struct {
	repo      *repository.TitleSectionRepository
	media     *MediaService
	validator *utils.Validator
}

func NewTitleSectionService(repo *repository.TitleSectionRepository, media *MediaService, validator *utils.Validator) *TitleSectionService {
	return &TitleSectionService{
		repo:      repo,
		media:     media,
		validator: validator,
	}
}

func (s *TitleSectionService) Get(ctx context.Context) (*models.TitleSection, error) {
	return s.repo.Get(ctx)
}

func (s *TitleSectionService) Update(ctx context.Context, req models.TitleSectionRequest) (*models.TitleSection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	section, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	section.Title = req.Title
	section.Subtitle = req.Subtitle
	section.CTAText = req.CTAText
	section.ImageURL = req.ImageURL
	section.EventDetails = req.EventDetails
	if section.EventDetails == nil {
		section.EventDetails = []models.EventDetail{}
	}

	if err := s.repo.Save(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// UploadImage stores a new hero image and points the title section at it.
func (s *TitleSectionService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.TitleSection, error) {
	section, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	img, err := s.media.Upload(ctx, file, "title")
	if err != nil {
		return nil, err
	}

	url := img.SecureURL
	section.ImageURL = &url
	if err := s.repo.Save(ctx, section); err != nil {
		_ = s.media.Remove(ctx, img.PublicID, img.ArchiveKey)
		return nil, err
	}
	return section, nil
}
