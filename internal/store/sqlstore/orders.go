package sqlstore

import (
	"context"
	"errors"

	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSortColumns = map[orders.SortField]string{
	orders.SortCreatedAt:   "created_at",
	orders.SortUpdatedAt:   "updated_at",
	orders.SortOrderNumber: "order_number",
	orders.SortStatus:      "status",
	orders.SortTotalAmount: "total_amount",
}

// OrderRepository implements orders.Repository on SQL.
type OrderRepository struct {
	base
}

func (r *OrderRepository) Create(ctx context.Context, order *orders.Order) error {
	row := newOrderRow(order)
	return r.conn(ctx).Create(&row).Error
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*orders.Order, error) {
	var row orderRow
	if err := r.conn(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orders.ErrNotFound
		}
		return nil, err
	}
	order := row.toDomain()
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *orders.Order, expectedVersion int64) error {
	row := newOrderRow(order)
	res := r.conn(ctx).
		Model(&orderRow{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(row.columns())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.conn(ctx).Model(&orderRow{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return orders.ErrNotFound
	}
	return orders.ErrVersionConflict
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&orderRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return orders.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context, query orders.ListQuery) ([]orders.Order, error) {
	column, ok := orderSortColumns[query.Sort.Field]
	if !ok {
		column = orderSortColumns[orders.DefaultSort.Field]
	}
	desc := query.Sort.Dir != enums.SortAsc

	var rows []orderRow
	err := r.filtered(ctx, query.Filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Limit(query.Page.Limit).
		Offset(query.Page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]orders.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepository) Count(ctx context.Context, filter orders.Filter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderRepository) filtered(ctx context.Context, filter orders.Filter) *gorm.DB {
	q := r.conn(ctx).Model(&orderRow{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	return q
}
