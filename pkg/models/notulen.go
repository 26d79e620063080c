package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotulenStatus string

const (
	NotulenDraft     NotulenStatus = "draft"
	NotulenFinalized NotulenStatus = "finalized"
	NotulenArchived  NotulenStatus = "archived"
)

func (s NotulenStatus) Valid() bool {
	switch s {
	case NotulenDraft, NotulenFinalized, NotulenArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the single allowed successor of s.
// The lifecycle is draft -> finalized -> archived and never goes back.
func (s NotulenStatus) CanTransitionTo(next NotulenStatus) bool {
	switch s {
	case NotulenDraft:
		return next == NotulenFinalized
	case NotulenFinalized:
		return next == NotulenArchived
	}
	return false
}

type AgendaItem struct {
	Titel   string `json:"titel" validate:"required"`
	Details string `json:"details,omitempty"`
}

type Besluit struct {
	Besluit     string `json:"besluit" validate:"required"`
	Toelichting string `json:"toelichting,omitempty"`
}

type Actiepunt struct {
	Actie             string `json:"actie" validate:"required"`
	Verantwoordelijke string `json:"verantwoordelijke,omitempty"`
	Deadline          string `json:"deadline,omitempty"`
	Status            string `json:"status,omitempty"`
}

// NotulenContent holds the editable fields of a set of meeting minutes.
type NotulenContent struct {
	Titel            string       `json:"titel" gorm:"not null"`
	VergaderingDatum time.Time    `json:"vergadering_datum" gorm:"not null;index"`
	Locatie          *string      `json:"locatie,omitempty"`
	Voorzitter       *string      `json:"voorzitter,omitempty"`
	Notulist         *string      `json:"notulist,omitempty"`
	AgendaItems      []AgendaItem `json:"agenda_items" gorm:"type:jsonb;serializer:json"`
	Besluiten        []Besluit    `json:"besluiten" gorm:"type:jsonb;serializer:json"`
	Actiepunten      []Actiepunt  `json:"actiepunten" gorm:"type:jsonb;serializer:json"`
	Aanwezigen       []string     `json:"aanwezigen" gorm:"type:jsonb;serializer:json"`
	Afwezigen        []string     `json:"afwezigen" gorm:"type:jsonb;serializer:json"`
	Notities         *string      `json:"notities,omitempty"`
}

type Notulen struct {
	ID string `json:"id" gorm:"primaryKey;type:uuid"`
	NotulenContent
	Status      NotulenStatus `json:"status" gorm:"not null;index"`
	Versie      int           `json:"versie" gorm:"not null"`
	CreatedBy   string        `json:"created_by"`
	UpdatedBy   string        `json:"updated_by"`
	FinalizedAt *time.Time    `json:"finalized_at,omitempty"`
	FinalizedBy *string       `json:"finalized_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (n *Notulen) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func (Notulen) TableName() string {
	return "notulen"
}

// Snapshot captures the content and status as stored in the version history.
func (n *Notulen) Snapshot() NotulenSnapshot {
	return NotulenSnapshot{NotulenContent: n.NotulenContent, Status: n.Status}
}

type NotulenSnapshot struct {
	NotulenContent
	Status NotulenStatus `json:"status"`
}

// NotulenVersion is an immutable entry of the version history of a Notulen.
type NotulenVersion struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid"`
	NotulenID      string          `json:"notulen_id" gorm:"not null;index;type:uuid"`
	Versie         int             `json:"versie" gorm:"not null"`
	Snapshot       NotulenSnapshot `json:"snapshot" gorm:"type:jsonb;serializer:json"`
	GewijzigdDoor  string          `json:"gewijzigd_door" gorm:"not null"`
	GewijzigdOp    time.Time       `json:"gewijzigd_op" gorm:"not null"`
	WijzigingReden *string         `json:"wijziging_reden,omitempty"`
}

func (v *NotulenVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

func (NotulenVersion) TableName() string {
	return "notulen_versions"
}

type NotulenRequest struct {
	Titel            string       `json:"titel" validate:"required,max=255"`
	VergaderingDatum string       `json:"vergadering_datum" validate:"required"`
	Locatie          *string      `json:"locatie"`
	Voorzitter       *string      `json:"voorzitter"`
	Notulist         *string      `json:"notulist"`
	AgendaItems      []AgendaItem `json:"agenda_items" validate:"dive"`
	Besluiten        []Besluit    `json:"besluiten" validate:"dive"`
	Actiepunten      []Actiepunt  `json:"actiepunten" validate:"dive"`
	Aanwezigen       []string     `json:"aanwezigen" validate:"dive,required"`
	Afwezigen        []string     `json:"afwezigen" validate:"dive,required"`
	Notities         *string      `json:"notities"`
}

type UpdateNotulenRequest struct {
	NotulenRequest
	// ExpectedVersie turns the update into a compare-and-swap when set.
	ExpectedVersie *int    `json:"expected_versie,omitempty" validate:"omitempty,gte=1"`
	WijzigingReden *string `json:"wijziging_reden,omitempty"`
}

type StatusChangeRequest struct {
	WijzigingReden *string `json:"wijziging_reden"`
}

type RollbackRequest struct {
	Versie         int     `json:"versie" validate:"required,gte=1"`
	WijzigingReden *string `json:"wijziging_reden"`
}

type NotulenFilter struct {
	Status NotulenStatus
	Query  string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// NotulenPermissions tells a client which actions are available on a Notulen.
type NotulenPermissions struct {
	CanEdit     bool `json:"can_edit"`
	CanFinalize bool `json:"can_finalize"`
	CanArchive  bool `json:"can_archive"`
}

type NotulenDetail struct {
	*Notulen
	Permissions NotulenPermissions `json:"permissions"`
}
