package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store bundles the relational repositories over one connection.
type Store struct {
	Products *ProductRepository
	Posts    *BlogRepository
	Orders   *OrderRepository
}

// New builds every repository on db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("gorm db required")
	}
	b := base{db: db}
	return &Store{
		Products: &ProductRepository{base: b},
		Posts:    &BlogRepository{base: b},
		Orders:   &OrderRepository{base: b},
	}, nil
}

type base struct {
	db *gorm.DB
}

func (b base) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
