package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is an embedded video (YouTube, Vimeo, Streamable) shown on the public site.
type Video struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	VideoID      string    `json:"video_id" gorm:"not null"`
	URL          string    `json:"url" gorm:"not null"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Visible      bool      `json:"visible" gorm:"not null"`
	OrderNumber  int       `json:"order_number" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type VideoRequest struct {
	VideoID      string  `json:"video_id" validate:"required,max=64"`
	URL          string  `json:"url" validate:"required,url"`
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url"`
	Visible      bool    `json:"visible"`
}

func (r VideoRequest) Apply(v *Video) {
	v.VideoID = r.VideoID
	v.URL = r.URL
	v.Title = r.Title
	v.Description = r.Description
	v.ThumbnailURL = r.ThumbnailURL
	v.Visible = r.Visible
}

func (v *Video) SetOrderNumber(n int) {
	v.OrderNumber = n
}
