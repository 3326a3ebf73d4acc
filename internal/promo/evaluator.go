package promo

import (
	"errors"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

const (
	MessageApplied  = "Promo code applied!"
	MessageRequired = "Promo code is required."
	MessageInvalid  = "Invalid promo code."
	MessageExpired  = "Promo code has expired."
)

// Reason explains why a code was rejected.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonRequired Reason = "required"
	ReasonInvalid  Reason = "invalid"
	ReasonExpired  Reason = "expired"
)

// Discount is the descriptor handed to carts and snapshotted into orders.
type Discount struct {
	Code         string             `json:"code"`
	Amount       float64            `json:"amount"`
	DiscountType enums.DiscountType `json:"discountType"`
	Description  string             `json:"description"`
}

// Result is the outcome of a validation.
type Result struct {
	Valid    bool      `json:"valid"`
	Discount *Discount `json:"discount,omitempty"`
	Message  string    `json:"message"`
	Reason   Reason    `json:"-"`
}

// Validator is what the HTTP layer and the order engine depend on.
type Validator interface {
	Validate(code string) Result
}

// Evaluator validates codes against an injected table and clock.
type Evaluator struct {
	table *Table
	now   func() time.Time
}

// NewEvaluator builds an evaluator; now defaults to time.Now.
func NewEvaluator(table *Table, now func() time.Time) (*Evaluator, error) {
	if table == nil {
		return nil, errors.New("promo table required")
	}
	if now == nil {
		now = time.Now
	}
	return &Evaluator{table: table, now: now}, nil
}

// Validate never errors; rejections are reported through Result.Reason. Only
// an empty code is "required"; a whitespace-only code is simply unknown. A code
// stops being valid at the instant it expires.
func (e *Evaluator) Validate(code string) Result {
	if code == "" {
		return Result{Message: MessageRequired, Reason: ReasonRequired}
	}

	promo, ok := e.table.Lookup(code)
	if !ok || !promo.IsActive {
		return Result{Message: MessageInvalid, Reason: ReasonInvalid}
	}

	if promo.ExpiresAt != nil && !promo.ExpiresAt.After(e.now()) {
		return Result{Message: MessageExpired, Reason: ReasonExpired}
	}

	return Result{
		Valid: true,
		Discount: &Discount{
			Code:         promo.Code,
			Amount:       promo.Amount,
			DiscountType: promo.DiscountType,
			Description:  promo.Description,
		},
		Message: MessageApplied,
	}
}
