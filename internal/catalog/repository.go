package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when a document does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrSlugTaken is returned by SavePost when another post owns the slug.
	ErrSlugTaken = errors.New("catalog: slug already in use")
)

// ProductRepository persists products. SaveProduct is an upsert keyed by ID.
type ProductRepository interface {
	ListProducts(ctx context.Context, category string) ([]Product, error)
	ListProductsByCategory(ctx context.Context, category string, limit int) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	SaveProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// BlogRepository persists blog posts. ListPosts returns newest first.
type BlogRepository interface {
	ListPosts(ctx context.Context) ([]BlogPost, error)
	GetPost(ctx context.Context, id string) (*BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	SavePost(ctx context.Context, post *BlogPost) error
	DeletePost(ctx context.Context, id string) error
}
