package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	"github.com/angelmondragon/biowe-backend/internal/promo"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/metrics"
	"github.com/angelmondragon/biowe-backend/pkg/pagination"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxWriteAttempts bounds re-reads when an unconditional write races another writer.
const maxWriteAttempts = 3

// Service is the order engine: checkout, status workflow, removal and listing.
type Service interface {
	CreateOrder(ctx context.Context, principal identity.Principal, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id string, principal identity.Principal) (*Order, error)
	UpdateStatus(ctx context.Context, id string, input UpdateStatusInput) (*Order, error)
	RemoveOrder(ctx context.Context, id string, principal identity.Principal) (Outcome, error)
	ListOrders(ctx context.Context, principal identity.Principal, query ListQuery) (*ListResult, error)
}

// ListResult is one page of orders plus the total matching the filter.
type ListResult struct {
	Orders     []Order         `json:"orders"`
	Total      int64           `json:"total"`
	Pagination pagination.Meta `json:"pagination"`
}

// ServiceParams wires the order service. Events, Metrics, Logger and Now are optional.
type ServiceParams struct {
	Repo     Repository
	Products ProductReader
	Promo    promo.Validator
	Pricer   *Pricer
	Numberer Numberer
	Events   EventPublisher
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo     Repository
	products ProductReader
	promo    promo.Validator
	pricer   *Pricer
	numberer Numberer
	events   EventPublisher
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if p.Promo == nil {
		return nil, fmt.Errorf("promo validator required")
	}
	if p.Pricer == nil {
		p.Pricer = NewPricer(DefaultPricingRules())
	}
	if p.Numberer == nil {
		p.Numberer = RandomNumberer{}
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		repo:     p.Repo,
		products: p.Products,
		promo:    p.Promo,
		pricer:   p.Pricer,
		numberer: p.Numberer,
		events:   p.Events,
		metrics:  p.Metrics,
		logg:     p.Logger,
		now:      p.Now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, principal identity.Principal, input CreateOrderInput) (*Order, error) {
	if principal.UID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order must contain at least one item")
	}
	if !input.ShippingAddress.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Valid shipping address is required")
	}
	for i, line := range input.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Item %d is missing a product id", i+1)
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Quantity for product %s must be at least 1", line.ProductID)
		}
	}

	products, err := s.resolveProducts(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(input.Items))
	lines := make([]PricedLine, 0, len(input.Items))
	for _, line := range input.Items {
		product := products[strings.TrimSpace(line.ProductID)]
		priced := PricedLine{Price: product.Price, Quantity: line.Quantity}
		lines = append(lines, priced)
		items = append(items, Item{
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductPrice:    product.Price,
			ProductImageSrc: product.ImageSrc,
			Quantity:        line.Quantity,
			Subtotal:        LineSubtotal(priced),
		})
	}

	var discount *promo.Discount
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		result := s.promo.Validate(code)
		if result.Valid && result.Discount != nil {
			discount = result.Discount
		} else {
			s.logg.Info(s.logg.WithField(ctx, "discount_code", code), "orders.create.promo_ignored")
		}
	}
	summary := s.pricer.Price(lines, discount)

	now := s.now().UTC()
	number, err := s.numberer.Next(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to assign order number")
	}

	address := *input.ShippingAddress
	order := &Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		UserID:          principal.UID,
		UserEmail:       principal.Email,
		UserName:        principal.DisplayName(),
		Items:           items,
		Summary:         summary,
		ShippingAddress: address,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		Notes:           strings.TrimSpace(input.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID)
	s.logg.Info(ctx, "orders.created")
	s.metrics.ObserveCreated(order.Summary.TotalAmount)
	s.publish(ctx, EventCreated, order, "")
	return order, nil
}

// resolveProducts reads every distinct product concurrently. A missing id
// fails the whole order, naming the first missing id in cart order.
func (s *service) resolveProducts(ctx context.Context, lines []LineInput) (map[string]*catalog.Product, error) {
	var ids []string
	seen := map[string]struct{}{}
	for _, line := range lines {
		id := strings.TrimSpace(line.ProductID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found := make([]*catalog.Product, len(ids))
	missing := make([]bool, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			product, err := s.products.GetProduct(gctx, id)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				missing[i] = true
				return nil
			case err != nil:
				return fmt.Errorf("product %s: %w", id, err)
			}
			found[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch products")
	}

	out := make(map[string]*catalog.Product, len(ids))
	for i, id := range ids {
		if missing[i] || found[i] == nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Product with ID %s not found", id).
				WithDetails(map[string]any{"productId": id})
		}
		out[id] = found[i]
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, id string, principal identity.Principal) (*Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden - You can only view your own orders")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, input UpdateStatusInput) (*Order, error) {
	next, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid order status").
			WithDetails(map[string]any{"status": input.Status})
	}

	before, after, err := s.mutate(ctx, id, input.ExpectedVersion, func(order *Order, now time.Time) error {
		previous := order.Status
		order.Status = next
		if input.AdminNotes != nil {
			order.AdminNotes = strings.TrimSpace(*input.AdminNotes)
		}
		if input.TrackingNumber != nil {
			order.TrackingNumber = strings.TrimSpace(*input.TrackingNumber)
		}
		if input.EstimatedDelivery != nil {
			order.EstimatedDelivery = strings.TrimSpace(*input.EstimatedDelivery)
		}
		applyStatusEffects(order, previous, next, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, after.ID)
	if next.Rank() < before.Status.Rank() {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"from": before.Status, "to": next}), "orders.status.backward_transition")
	}
	s.metrics.IncTransition(before.Status.String(), next.String())
	s.publish(ctx, EventStatusChanged, after, before.Status)
	return after, nil
}

// applyStatusEffects stamps first-time milestone timestamps and the payment
// status side effects of entering next.
func applyStatusEffects(order *Order, previous, next enums.OrderStatus, now time.Time) {
	if previous != next {
		stamp := now
		switch next {
		case enums.OrderStatusConfirmed:
			order.ConfirmedAt = &stamp
		case enums.OrderStatusShipped:
			order.ShippedAt = &stamp
		case enums.OrderStatusDelivered:
			order.DeliveredAt = &stamp
		}
	}
	if payment, ok := enums.PaymentStatusOnEnter(next); ok {
		order.PaymentStatus = payment
	}
}

func (s *service) RemoveOrder(ctx context.Context, id string, principal identity.Principal) (Outcome, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if err := checkRemoval(order, principal); err != nil {
		return "", err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID)

	if principal.Admin {
		if err := s.repo.Delete(ctx, order.ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", orderNotFound()
			}
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete order")
		}
		s.logg.Info(ctx, "orders.deleted")
		s.metrics.IncRemoval(string(OutcomeDeleted))
		s.publish(ctx, EventDeleted, order, order.Status)
		return OutcomeDeleted, nil
	}

	before, after, err := s.mutate(ctx, order.ID, nil, func(current *Order, _ time.Time) error {
		if err := checkRemoval(current, principal); err != nil {
			return err
		}
		current.Status = enums.OrderStatusCancelled
		current.PaymentStatus = enums.PaymentStatusRefunded
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logg.Info(ctx, "orders.cancelled")
	s.metrics.IncRemoval(string(OutcomeCancelled))
	s.metrics.IncTransition(before.Status.String(), after.Status.String())
	s.publish(ctx, EventCancelled, after, before.Status)
	return OutcomeCancelled, nil
}

func checkRemoval(order *Order, principal identity.Principal) error {
	if !principal.CanAccess(order.UserID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden - You can only cancel your own orders")
	}
	if !principal.Admin && order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodePolicy, "You can only cancel orders that are still pending").
			WithDetails(map[string]any{"status": order.Status})
	}
	return nil
}

func (s *service) ListOrders(ctx context.Context, principal identity.Principal, query ListQuery) (*ListResult, error) {
	if principal.UID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	query.Filter.UserID = strings.TrimSpace(query.Filter.UserID)
	if !principal.Admin {
		if query.Filter.UserID == "" {
			query.Filter.UserID = principal.UID
		}
		if query.Filter.UserID != principal.UID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden - You can only view your own order history")
		}
	}
	if query.Filter.Status != "" && !query.Filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid order status").
			WithDetails(map[string]any{"status": query.Filter.Status})
	}
	if query.Sort.Field == "" {
		query.Sort = DefaultSort
	}
	if query.Sort.Dir == "" {
		query.Sort.Dir = enums.SortDesc
	}

	fallback := pagination.DefaultAdminLimit
	if query.Filter.UserID != "" {
		fallback = pagination.DefaultLimit
	}
	query.Page = query.Page.Normalize(fallback)

	var (
		orders []Order
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.List(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, query.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch orders")
	}
	if orders == nil {
		orders = []Order{}
	}
	return &ListResult{
		Orders:     orders,
		Total:      total,
		Pagination: pagination.NewMeta(total, query.Page),
	}, nil
}

func (s *service) load(ctx context.Context, id string) (*Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch order")
	}
	return order, nil
}

// mutate applies fn to a fresh copy of the order and writes it back with a
// version check. With an expected version a mismatch is a conflict; without
// one a concurrent write is retried on a re-read so the last writer wins.
func (s *service) mutate(ctx context.Context, id string, expected *int64, fn func(order *Order, now time.Time) error) (*Order, *Order, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		current, err := s.load(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if expected != nil && current.Version != *expected {
			return nil, nil, versionConflict(*expected, current.Version)
		}

		before := *current
		now := s.now().UTC()
		if err := fn(current, now); err != nil {
			return nil, nil, err
		}
		current.UpdatedAt = now
		current.Version = before.Version + 1

		err = s.repo.Update(ctx, current, before.Version)
		switch {
		case err == nil:
			return &before, current, nil
		case errors.Is(err, ErrNotFound):
			return nil, nil, orderNotFound()
		case errors.Is(err, ErrVersionConflict):
			if expected != nil {
				return nil, nil, versionConflict(*expected, -1)
			}
			continue
		default:
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update order")
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "Order is being modified concurrently, retry the request")
}

func (s *service) publish(ctx context.Context, eventType string, order *Order, previous enums.OrderStatus) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, newOrderEvent(order, previous)); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "event_type", eventType), "orders.event.publish_failed", err)
	}
}

func orderNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
}

func versionConflict(expected, current int64) error {
	details := map[string]any{"expectedVersion": expected}
	if current >= 0 {
		details["currentVersion"] = current
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "Order was modified by another request").WithDetails(details)
}
