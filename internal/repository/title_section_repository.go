package repository

import (
	"context"

	"github.com/dkl25/admin-api/pkg/models"
	"gorm.io/gorm"
)

type TitleSectionRepository struct {
	db *gorm.DB
}

func NewTitleSectionRepository(db *gorm.DB) *TitleSectionRepository {
	return &TitleSectionRepository{
		db: db,
	}
}

func (r *TitleSectionRepository) Get(ctx context.Context) (*models.TitleSection, error) {
	var section models.TitleSection
	if err := r.db.WithContext(ctx).First(&section, models.TitleSectionID).Error; err != nil {
		return nil, notFound(err)
	}
	return &section, nil
}

func (r *TitleSectionRepository) Save(ctx context.Context, section *models.TitleSection) error {
	section.ID = models.TitleSectionID
	return r.db.WithContext(ctx).Save(section).Error
}
