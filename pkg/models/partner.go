package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Partner struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	Tier        Tier      `json:"tier" gorm:"not null"`
	Since       *int      `json:"since,omitempty"`
	Visible     bool      `json:"visible" gorm:"not null"`
	OrderNumber int       `json:"order_number" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PartnerRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	WebsiteURL  *string `json:"website_url" validate:"omitempty,url"`
	Tier        Tier    `json:"tier" validate:"required,oneof=gold silver bronze"`
	Since       *int    `json:"since" validate:"omitempty,gte=1900,lte=2100"`
	Visible     bool    `json:"visible"`
}

func (r PartnerRequest) Apply(p *Partner) {
	p.Name = r.Name
	p.Description = r.Description
	p.LogoURL = r.LogoURL
	p.WebsiteURL = r.WebsiteURL
	p.Tier = r.Tier
	p.Since = r.Since
	p.Visible = r.Visible
}

func (p *Partner) SetOrderNumber(n int) {
	p.OrderNumber = n
}
