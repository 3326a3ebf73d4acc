package enums

// PaymentStatus tracks whether an order has been paid for. It only moves as a
// side effect of order status changes.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid reports whether p is pending, paid or refunded.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

func (p PaymentStatus) String() string { return string(p) }

// PaymentStatusOnEnter returns the payment status forced by entering status,
// and false when entering status leaves payment untouched.
func PaymentStatusOnEnter(status OrderStatus) (PaymentStatus, bool) {
	switch status {
	case OrderStatusConfirmed, OrderStatusProcessing:
		return PaymentStatusPaid, true
	case OrderStatusCancelled, OrderStatusRefunded:
		return PaymentStatusRefunded, true
	}
	return "", false
}
