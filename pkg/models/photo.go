package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Photo struct {
	ID           string       `json:"id" gorm:"primaryKey;type:uuid"`
	URL          string       `json:"url" gorm:"not null"`
	ThumbnailURL *string      `json:"thumbnail_url,omitempty"`
	PublicID     string       `json:"public_id"`
	ArchiveKey   string       `json:"-"`
	Title        string       `json:"title" gorm:"not null"`
	AltText      *string      `json:"alt_text,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Year         *int         `json:"year,omitempty"`
	Visible      bool         `json:"visible" gorm:"not null"`
	OrderNumber  int          `json:"order_number" gorm:"not null;index"`
	AlbumPhotos  []AlbumPhoto `json:"album_photos,omitempty" gorm:"foreignKey:PhotoID"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PhotoRequest carries the editable metadata of a photo. On upload it arrives as form fields.
type PhotoRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=255"`
	AltText     *string `json:"alt_text" form:"alt_text"`
	Description *string `json:"description" form:"description"`
	Year        *int    `json:"year" form:"year" validate:"omitempty,gte=1900,lte=2100"`
	Visible     bool    `json:"visible" form:"visible"`
}

type BulkIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type BulkVisibilityRequest struct {
	IDs     []string `json:"ids" validate:"required,min=1,dive,required"`
	Visible bool     `json:"visible"`
}

type BulkAlbumRequest struct {
	IDs     []string `json:"ids" validate:"required,min=1,dive,required"`
	AlbumID string   `json:"album_id" validate:"required"`
}

type BulkResult struct {
	Affected int64 `json:"affected"`
}
