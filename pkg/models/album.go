package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description,omitempty"`
	CoverPhotoID *string   `json:"cover_photo_id,omitempty" gorm:"type:uuid"`
	Visible      bool      `json:"visible" gorm:"not null"`
	OrderNumber  int       `json:"order_number" gorm:"not null;index"`
	PhotoCount   int64     `json:"photo_count" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AlbumPhoto links a photo to an album and holds its position within that album.
type AlbumPhoto struct {
	AlbumID     string    `json:"album_id" gorm:"primaryKey;type:uuid"`
	PhotoID     string    `json:"photo_id" gorm:"primaryKey;type:uuid"`
	OrderNumber int       `json:"order_number" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

type AlbumRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description"`
	CoverPhotoID *string `json:"cover_photo_id" validate:"omitempty,uuid"`
	Visible      bool    `json:"visible"`
}

type AlbumPhotosRequest struct {
	PhotoIDs []string `json:"photo_ids" validate:"required,min=1,dive,required"`
}
