package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	orderNumberPrefix = "ORD"
	dailyCounterTTL   = 48 * time.Hour
)

// Numberer assigns human facing order numbers.
type Numberer interface {
	Next(ctx context.Context, now time.Time) (string, error)
}

type counterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

// CounterNumberer issues ORD-<year>-<MMDD><6 digit daily sequence> from an
// atomic per-day counter, so numbers never collide across instances.
type CounterNumberer struct {
	store counterStore
}

func NewCounterNumberer(store counterStore) (*CounterNumberer, error) {
	if store == nil {
		return nil, fmt.Errorf("counter store required")
	}
	return &CounterNumberer{store: store}, nil
}

func (n *CounterNumberer) Next(ctx context.Context, now time.Time) (string, error) {
	now = now.UTC()
	key := n.store.CounterKey("orders:" + now.Format("20060102"))
	seq, err := n.store.IncrWithTTL(ctx, key, dailyCounterTTL)
	if err != nil {
		return "", fmt.Errorf("increment order counter: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s%06d", orderNumberPrefix, now.Year(), now.Format("0102"), seq), nil
}

// RandomNumberer issues ORD-<year>-<10 hex chars> from a random UUID.
type RandomNumberer struct{}

func (RandomNumberer) Next(_ context.Context, now time.Time) (string, error) {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, now.UTC().Year(), raw[:10]), nil
}

// FallbackNumberer uses primary and switches to fallback when it errors.
type FallbackNumberer struct {
	primary  Numberer
	fallback Numberer
	logg     *logger.Logger
}

func NewFallbackNumberer(primary, fallback Numberer, logg *logger.Logger) *FallbackNumberer {
	if fallback == nil {
		fallback = RandomNumberer{}
	}
	return &FallbackNumberer{primary: primary, fallback: fallback, logg: logg}
}

func (n *FallbackNumberer) Next(ctx context.Context, now time.Time) (string, error) {
	if n.primary != nil {
		number, err := n.primary.Next(ctx, now)
		if err == nil {
			return number, nil
		}
		if n.logg != nil {
			n.logg.Error(ctx, "orders.number.fallback", err)
		}
	}
	return n.fallback.Next(ctx, now)
}
