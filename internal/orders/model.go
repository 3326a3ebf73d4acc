package orders

import (
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

// Item is a line of an order with the product snapshotted at purchase time.
type Item struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductPrice    float64 `json:"productPrice"`
	ProductImageSrc string  `json:"productImageSrc"`
	Quantity        int     `json:"quantity"`
	Subtotal        float64 `json:"subtotal"`
}

// Summary holds the priced totals of an order.
type Summary struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	DiscountCode   string  `json:"discountCode,omitempty"`
	ShippingCost   float64 `json:"shippingCost"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
}

// ShippingAddress is the postal destination of an order.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

func (a *ShippingAddress) valid() bool {
	return a != nil && strings.TrimSpace(a.FullName) != "" && strings.TrimSpace(a.AddressLine1) != ""
}

// Order is the persisted purchase record. Version increases on every write.
type Order struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"orderNumber"`
	UserID            string              `json:"userId"`
	UserEmail         string              `json:"userEmail"`
	UserName          string              `json:"userName"`
	Items             []Item              `json:"items"`
	Summary           Summary             `json:"summary"`
	ShippingAddress   ShippingAddress     `json:"shippingAddress"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	Notes             string              `json:"notes,omitempty"`
	AdminNotes        string              `json:"adminNotes,omitempty"`
	TrackingNumber    string              `json:"trackingNumber,omitempty"`
	EstimatedDelivery string              `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	ConfirmedAt       *time.Time          `json:"confirmedAt,omitempty"`
	ShippedAt         *time.Time          `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time          `json:"deliveredAt,omitempty"`
	Version           int64               `json:"version"`
}

// LineInput is one requested cart line.
type LineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput is what a customer submits at checkout. Prices are never
// taken from the client.
type CreateOrderInput struct {
	Items           []LineInput
	ShippingAddress *ShippingAddress
	DiscountCode    string
	Notes           string
}

// UpdateStatusInput drives the admin status workflow. Nil optional fields
// are left untouched; ExpectedVersion enables compare-and-swap.
type UpdateStatusInput struct {
	Status            string
	AdminNotes        *string
	TrackingNumber    *string
	EstimatedDelivery *string
	ExpectedVersion   *int64
}

// Outcome reports what RemoveOrder did.
type Outcome string

const (
	OutcomeDeleted   Outcome = "deleted"
	OutcomeCancelled Outcome = "cancelled"
)

// Message is the human readable confirmation for the outcome.
func (o Outcome) Message() string {
	if o == OutcomeDeleted {
		return "Order deleted successfully"
	}
	return "Order cancelled successfully"
}
