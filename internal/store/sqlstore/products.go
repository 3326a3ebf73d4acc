package sqlstore

import (
	"context"
	"errors"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository implements catalog.ProductRepository on SQL.
type ProductRepository struct {
	base
}

func (r *ProductRepository) ListProducts(ctx context.Context, category string) ([]catalog.Product, error) {
	var rows []productRow
	q := r.conn(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) ListProductsByCategory(ctx context.Context, category string, limit int) ([]catalog.Product, error) {
	var rows []productRow
	err := r.conn(ctx).
		Where("category = ?", category).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var row productRow
	if err := r.conn(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	product := row.toDomain()
	return &product, nil
}

func (r *ProductRepository) SaveProduct(ctx context.Context, product *catalog.Product) error {
	row := newProductRow(product)
	return r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&productRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func toProducts(rows []productRow) []catalog.Product {
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
