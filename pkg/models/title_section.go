package models

import "time"

// TitleSectionID is the primary key of the single title section row.
const TitleSectionID uint = 1

type EventDetail struct {
	Icon        string `json:"icon" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type TitleSection struct {
	ID           uint          `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title        string        `json:"title" gorm:"not null"`
	Subtitle     *string       `json:"subtitle,omitempty"`
	CTAText      *string       `json:"cta_text,omitempty"`
	ImageURL     *string       `json:"image_url,omitempty"`
	EventDetails []EventDetail `json:"event_details" gorm:"type:jsonb;serializer:json"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type TitleSectionRequest struct {
	Title        string        `json:"title" validate:"required,max=255"`
	Subtitle     *string       `json:"subtitle"`
	CTAText      *string       `json:"cta_text"`
	ImageURL     *string       `json:"image_url" validate:"omitempty,url"`
	EventDetails []EventDetail `json:"event_details" validate:"dive"`
}
