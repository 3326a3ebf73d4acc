package orders

import (
	"context"
	"errors"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	"github.com/angelmondragon/biowe-backend/pkg/pagination"
)

var (
	// ErrNotFound is returned when an order id does not resolve.
	ErrNotFound = errors.New("orders: not found")
	// ErrVersionConflict is returned by Update when the stored version moved.
	ErrVersionConflict = errors.New("orders: version conflict")
)

// Filter narrows order listings. Empty fields match everything.
type Filter struct {
	UserID string
	Status enums.OrderStatus
}

// ListQuery is a filtered, sorted page request.
type ListQuery struct {
	Filter Filter
	Page   pagination.Params
	Sort   Sort
}

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// Update replaces the stored order only if its version still equals expectedVersion.
	Update(ctx context.Context, order *Order, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query ListQuery) ([]Order, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// ProductReader resolves catalog products at their current state.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}
