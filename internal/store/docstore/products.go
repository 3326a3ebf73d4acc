package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
)

// ProductRepository implements catalog.ProductRepository on Firestore.
type ProductRepository struct {
	client *firestore.Client
}

func (r *ProductRepository) coll() *firestore.CollectionRef {
	return r.client.Collection(productsCollection)
}

func (r *ProductRepository) ListProducts(ctx context.Context, category string) ([]catalog.Product, error) {
	q := r.coll().Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	return collect(q.Documents(ctx), decodeProduct)
}

func (r *ProductRepository) ListProductsByCategory(ctx context.Context, category string, limit int) ([]catalog.Product, error) {
	q := r.coll().Where("category", "==", category).Limit(limit)
	return collect(q.Documents(ctx), decodeProduct)
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	product, err := decodeProduct(snap)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) SaveProduct(ctx context.Context, product *catalog.Product) error {
	_, err := r.coll().Doc(product.ID).Set(ctx, newProductDoc(product))
	return err
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.coll().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return catalog.ErrNotFound
	}
	return err
}

func decodeProduct(snap *firestore.DocumentSnapshot) (catalog.Product, error) {
	var doc productDoc
	if err := snap.DataTo(&doc); err != nil {
		return catalog.Product{}, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}
