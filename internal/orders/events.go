package orders

import (
	"context"

	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

// Event types published after order writes.
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
	EventCancelled     = "order.cancelled"
	EventDeleted       = "order.deleted"
)

// EventPublisher delivers order events. Implementations live in internal/events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// OrderEvent is the payload carried by every order event.
type OrderEvent struct {
	OrderID        string              `json:"orderId"`
	OrderNumber    string              `json:"orderNumber"`
	UserID         string              `json:"userId"`
	Status         enums.OrderStatus   `json:"status"`
	PreviousStatus enums.OrderStatus   `json:"previousStatus,omitempty"`
	PaymentStatus  enums.PaymentStatus `json:"paymentStatus"`
	TotalAmount    float64             `json:"totalAmount"`
	Version        int64               `json:"version"`
}

func newOrderEvent(order *Order, previous enums.OrderStatus) OrderEvent {
	return OrderEvent{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		PaymentStatus:  order.PaymentStatus,
		TotalAmount:    order.Summary.TotalAmount,
		Version:        order.Version,
	}
}
