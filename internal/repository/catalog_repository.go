package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"gorm.io/gorm"
)

// CatalogRepository stores ordered, optionally hidden content rows such as
// sponsors, partners and videos. The album and photo repositories embed it.
type CatalogRepository[T any] struct {
	db *gorm.DB
}

func NewCatalogRepository[T any](db *gorm.DB) *CatalogRepository[T] {
	return &CatalogRepository[T]{
		db: db,
	}
}

func (r *CatalogRepository[T]) List(ctx context.Context, onlyVisible bool) ([]T, error) {
	var items []T
	q := r.db.WithContext(ctx).Order("order_number ASC, created_at ASC")
	if onlyVisible {
		q = q.Where("visible = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CatalogRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *CatalogRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CatalogRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CatalogRepository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// NextOrderNumber returns the position that places a new row at the end.
func (r *CatalogRepository[T]) NextOrderNumber(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(new(T)).Select("COALESCE(MAX(order_number), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Reorder writes all order numbers of the batch in one transaction. The
// batch must name every row exactly once; an unknown id or a partial batch
// rolls the whole batch back.
func (r *CatalogRepository[T]) Reorder(ctx context.Context, items []models.OrderItem) error {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRows(tx, new(T), ids); err != nil {
			return err
		}
		var total int64
		if err := tx.Model(new(T)).Count(&total).Error; err != nil {
			return err
		}
		if total != int64(len(ids)) {
			return fmt.Errorf("%w: order covers %d of %d rows", utils.ErrInvalidInput, len(ids), total)
		}

		for _, it := range items {
			res := tx.Model(new(T)).Where("id = ?", it.ID).Update("order_number", it.OrderNumber)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", utils.ErrNotFound, it.ID)
			}
		}
		return nil
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	return err
}
