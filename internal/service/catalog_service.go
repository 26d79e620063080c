package service

import (
	"context"
	"fmt"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/reorder"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

// CatalogEntry is a pointer to an ordered content row.
type CatalogEntry[T any] interface {
	*T
	SetOrderNumber(n int)
}

// CatalogRequest is the create/update payload of a content row.
type CatalogRequest[T any] interface {
	Apply(item *T)
}

// CatalogService implements list/get/create/update/delete/reorder for
// sponsors, partners and videos.
type CatalogService[T any, PT CatalogEntry[T], R CatalogRequest[T]] struct {
	name      string
	repo      *repository.CatalogRepository[T]
	validator *utils.Validator
	log       *zap.Logger
}

func NewCatalogService[T any, PT CatalogEntry[T], R CatalogRequest[T]](
	name string,
	repo *repository.CatalogRepository[T],
	validator *utils.Validator,
	log *zap.Logger,
) *CatalogService[T, PT, R] {
	return &CatalogService[T, PT, R]{
		name:      name,
		repo:      repo,
		validator: validator,
		log:       log.With(zap.String("resource", name)),
	}
}

type (
	SponsorService = CatalogService[models.Sponsor, *models.Sponsor, models.SponsorRequest]
	PartnerService = CatalogService[models.Partner, *models.Partner, models.PartnerRequest]
	VideoService   = CatalogService[models.Video, *models.Video, models.VideoRequest]
)

func NewSponsorService(repo *repository.CatalogRepository[models.Sponsor], v *utils.Validator, log *zap.Logger) *SponsorService {
	return NewCatalogService[models.Sponsor, *models.Sponsor, models.SponsorRequest]("sponsors", repo, v, log)
}

func NewPartnerService(repo *repository.CatalogRepository[models.Partner], v *utils.Validator, log *zap.Logger) *PartnerService {
	return NewCatalogService[models.Partner, *models.Partner, models.PartnerRequest]("partners", repo, v, log)
}

func NewVideoService(repo *repository.CatalogRepository[models.Video], v *utils.Validator, log *zap.Logger) *VideoService {
	return NewCatalogService[models.Video, *models.Video, models.VideoRequest]("videos", repo, v, log)
}

func (s *CatalogService[T, PT, R]) Name() string {
	return s.name
}

func (s *CatalogService[T, PT, R]) List(ctx context.Context, onlyVisible bool) ([]T, error) {
	return s.repo.List(ctx, onlyVisible)
}

func (s *CatalogService[T, PT, R]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates req and appends the new row at the end of the list.
func (s *CatalogService[T, PT, R]) Create(ctx context.Context, req R) (*T, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	next, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	item := new(T)
	req.Apply(item)
	PT(item).SetOrderNumber(next)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.name, err)
	}
	return item, nil
}

func (s *CatalogService[T, PT, R]) Update(ctx context.Context, id string, req R) (*T, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(item)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.name, err)
	}
	return item, nil
}

func (s *CatalogService[T, PT, R]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CatalogService[T, PT, R]) Reorder(ctx context.Context, items []models.OrderItem) error {
	if err := validateOrder(s.validator, items); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, items); err != nil {
		return err
	}
	s.log.Info("order saved", zap.Int("items", len(items)))
	return nil
}

// validateOrder checks a reorder batch for structural problems.
func validateOrder(v *utils.Validator, items []models.OrderItem) error {
	if err := v.Struct(models.ReorderRequest{Items: items}); err != nil {
		return err
	}
	if err := reorder.Validate(items); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	return nil
}
