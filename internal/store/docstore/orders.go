package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

// OrderRepository implements orders.Repository on Firestore.
type OrderRepository struct {
	client *firestore.Client
}

func (r *OrderRepository) coll() *firestore.CollectionRef {
	return r.client.Collection(ordersCollection)
}

func (r *OrderRepository) Create(ctx context.Context, order *orders.Order) error {
	_, err := r.coll().Doc(order.ID).Create(ctx, newOrderDoc(order))
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*orders.Order, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, orders.ErrNotFound
		}
		return nil, err
	}
	order, err := decodeOrder(snap)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update swaps the document inside a transaction when the stored version
// still equals expectedVersion.
func (r *OrderRepository) Update(ctx context.Context, order *orders.Order, expectedVersion int64) error {
	ref := r.coll().Doc(order.ID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return orders.ErrNotFound
			}
			return err
		}
		current, err := decodeOrder(snap)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return orders.ErrVersionConflict
		}
		return tx.Set(ref, newOrderDoc(order))
	})
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return orders.ErrNotFound
	}
	return err
}

func (r *OrderRepository) List(ctx context.Context, query orders.ListQuery) ([]orders.Order, error) {
	dir := firestore.Desc
	if query.Sort.Dir == enums.SortAsc {
		dir = firestore.Asc
	}
	field := string(query.Sort.Field)
	if field == "" {
		field = string(orders.DefaultSort.Field)
	}
	q := r.filtered(query.Filter).
		OrderBy(field, dir).
		Offset(query.Page.Offset).
		Limit(query.Page.Limit)
	return collect(q.Documents(ctx), decodeOrder)
}

func (r *OrderRepository) Count(ctx context.Context, filter orders.Filter) (int64, error) {
	return count(ctx, r.filtered(filter))
}

func (r *OrderRepository) filtered(filter orders.Filter) firestore.Query {
	q := r.coll().Query
	if filter.UserID != "" {
		q = q.Where("userId", "==", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	return q
}

func decodeOrder(snap *firestore.DocumentSnapshot) (orders.Order, error) {
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return orders.Order{}, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}
