package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

type Sponsor struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	Tier        Tier      `json:"tier" gorm:"not null"`
	Visible     bool      `json:"visible" gorm:"not null"`
	OrderNumber int       `json:"order_number" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Sponsor) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SponsorRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	WebsiteURL  *string `json:"website_url" validate:"omitempty,url"`
	Tier        Tier    `json:"tier" validate:"required,oneof=gold silver bronze"`
	Visible     bool    `json:"visible"`
}

func (r SponsorRequest) Apply(s *Sponsor) {
	s.Name = r.Name
	s.Description = r.Description
	s.LogoURL = r.LogoURL
	s.WebsiteURL = r.WebsiteURL
	s.Tier = r.Tier
	s.Visible = r.Visible
}

func (s *Sponsor) SetOrderNumber(n int) {
	s.OrderNumber = n
}
