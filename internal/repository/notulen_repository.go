package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"gorm.io/gorm"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// contentColumns are the columns written by a draft update.
var contentColumns = []string{
	"titel", "vergadering_datum", "locatie", "voorzitter", "notulist",
	"agenda_items", "besluiten", "actiepunten", "aanwezigen", "afwezigen", "notities",
	"versie", "updated_by", "updated_at",
}

var statusColumns = []string{"status", "updated_by", "updated_at", "finalized_at", "finalized_by"}

type NotulenRepository struct {
	db *gorm.DB
}

func NewNotulenRepository(db *gorm.DB) *NotulenRepository {
	return &NotulenRepository{
		db: db,
	}
}

// Create stores a new Notulen together with its first version entry.
func (r *NotulenRepository) Create(ctx context.Context, n *models.Notulen, reden *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		return tx.Create(newVersion(n, n.CreatedBy, reden)).Error
	})
}

func (r *NotulenRepository) GetByID(ctx context.Context, id string) (*models.Notulen, error) {
	var n models.Notulen
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// Search filters by status, meeting date range and a case insensitive match
// on title and notes, newest meeting first.
func (r *NotulenRepository) Search(ctx context.Context, f models.NotulenFilter) ([]models.Notulen, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notulen{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(titel) LIKE ? OR LOWER(COALESCE(notities, '')) LIKE ?", like, like)
	}
	if f.From != nil {
		q = q.Where("vergadering_datum >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("vergadering_datum <= ?", *f.To)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notulen
	err := q.Order("vergadering_datum DESC, created_at DESC").
		Limit(SearchLimit(f.Limit)).
		Offset(f.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SearchLimit is the page size Search applies for a requested limit.
func SearchLimit(requested int) int {
	if requested <= 0 {
		return defaultSearchLimit
	}
	if requested > maxSearchLimit {
		return maxSearchLimit
	}
	return requested
}

// UpdateDraft writes the content of n and moves versie from expected to
// expected+1, but only while the row is still a draft at that version.
// A version entry is appended in the same transaction.
func (r *NotulenRepository) UpdateDraft(ctx context.Context, n *models.Notulen, expected int, reden *string) error {
	n.Versie = expected + 1
	n.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(n).
			Where("versie = ? AND status = ?", expected, models.NotulenDraft).
			Select(contentColumns).
			Updates(n)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.conflict(tx, n.ID)
		}
		return tx.Create(newVersion(n, n.UpdatedBy, reden)).Error
	})
}

// Transition moves n from status from to n.Status and records a version
// entry. The version number does not change.
func (r *NotulenRepository) Transition(ctx context.Context, n *models.Notulen, from models.NotulenStatus, reden *string) error {
	n.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(n).
			Where("status = ?", from).
			Select(statusColumns).
			Updates(n)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := r.get(tx, n.ID); err != nil {
				return err
			}
			return utils.ErrInvalidTransition
		}
		return tx.Create(newVersion(n, n.UpdatedBy, reden)).Error
	})
}

// Delete removes the Notulen and its whole version history.
func (r *NotulenRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notulen_id = ?", id).Delete(&models.NotulenVersion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Notulen{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

// ListVersions returns the history, newest first.
func (r *NotulenRepository) ListVersions(ctx context.Context, notulenID string) ([]models.NotulenVersion, error) {
	var versions []models.NotulenVersion
	err := r.db.WithContext(ctx).
		Where("notulen_id = ?", notulenID).
		Order("versie DESC, gewijzigd_op DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion returns the entry of the given versie. Status changes keep the
// version number, so the latest entry for that number wins.
func (r *NotulenRepository) GetVersion(ctx context.Context, notulenID string, versie int) (*models.NotulenVersion, error) {
	var v models.NotulenVersion
	err := r.db.WithContext(ctx).
		Where("notulen_id = ? AND versie = ?", notulenID, versie).
		Order("gewijzigd_op DESC").
		First(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *NotulenRepository) get(tx *gorm.DB, id string) (*models.Notulen, error) {
	var n models.Notulen
	if err := tx.First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// conflict explains why a guarded draft update matched no row.
func (r *NotulenRepository) conflict(tx *gorm.DB, id string) error {
	current, err := r.get(tx, id)
	if err != nil {
		return err
	}
	if current.Status != models.NotulenDraft {
		return utils.ErrNotEditable
	}
	return utils.ErrVersionConflict
}

func newVersion(n *models.Notulen, by string, reden *string) *models.NotulenVersion {
	return &models.NotulenVersion{
		NotulenID:      n.ID,
		Versie:         n.Versie,
		Snapshot:       n.Snapshot(),
		GewijzigdDoor:  by,
		GewijzigdOp:    time.Now(),
		WijzigingReden: reden,
	}
}

// IsConflict reports whether err came from a lost compare-and-swap.
func IsConflict(err error) bool {
	return errors.Is(err, utils.ErrVersionConflict)
}
