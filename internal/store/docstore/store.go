package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "all"

// Store bundles the document database repositories.
type Store struct {
	client *firestore.Client

	Products *ProductRepository
	Posts    *BlogRepository
	Orders   *OrderRepository
}

// New builds every repository on client.
func New(client *firestore.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("firestore client required")
	}
	return &Store{
		client:   client,
		Products: &ProductRepository{client: client},
		Posts:    &BlogRepository{client: client},
		Orders:   &OrderRepository{client: client},
	}, nil
}

// Ping reads at most one product to confirm the database answers.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(productsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// collect drains a query, decoding each snapshot with decode.
func collect[T any](iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer iter.Stop()
	out := make([]T, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, v)
	}
}

func count(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, err
	}
	raw, ok := res[countAlias]
	if !ok {
		return 0, errors.New("count aggregation missing from result")
	}
	v, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", raw)
	}
	return v.GetIntegerValue(), nil
}
