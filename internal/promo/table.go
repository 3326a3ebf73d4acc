package promo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

// Code is one entry of the promo table.
type Code struct {
	Code         string             `json:"code"`
	Description  string             `json:"description"`
	DiscountType enums.DiscountType `json:"discountType"`
	Amount       float64            `json:"amount"`
	ExpiresAt    *time.Time         `json:"expiresAt,omitempty"`
	IsActive     bool               `json:"isActive"`
}

// Table is an immutable, case-insensitive promo lookup.
type Table struct {
	codes map[string]Code
	order []string
}

// NewTable validates entries and indexes them by normalized code.
func NewTable(codes []Code) (*Table, error) {
	t := &Table{codes: make(map[string]Code, len(codes))}
	for _, c := range codes {
		key := normalize(c.Code)
		if key == "" {
			return nil, fmt.Errorf("promo code is empty")
		}
		if !c.DiscountType.IsValid() {
			return nil, fmt.Errorf("promo %s: invalid discount type %q", c.Code, c.DiscountType)
		}
		if c.Amount < 0 {
			return nil, fmt.Errorf("promo %s: amount must not be negative", c.Code)
		}
		if c.DiscountType == enums.DiscountTypePercentage && c.Amount > 100 {
			return nil, fmt.Errorf("promo %s: percentage above 100", c.Code)
		}
		if _, dup := t.codes[key]; dup {
			return nil, fmt.Errorf("promo %s: duplicate code", c.Code)
		}
		t.codes[key] = c
		t.order = append(t.order, key)
	}
	return t, nil
}

// DefaultTable is the launch promo set.
func DefaultTable() *Table {
	expired := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	t, err := NewTable([]Code{
		{Code: "BIO10", Description: "10% off your order", DiscountType: enums.DiscountTypePercentage, Amount: 10, IsActive: true},
		{Code: "BIO50", Description: "₹50 off your order", DiscountType: enums.DiscountTypeFixed, Amount: 50, IsActive: true},
		{Code: "EXPIRED", Description: "Expired code", DiscountType: enums.DiscountTypePercentage, Amount: 20, ExpiresAt: &expired, IsActive: true},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTable reads a JSON array of codes from path.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read promo table: %w", err)
	}
	var codes []Code
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("decode promo table: %w", err)
	}
	return NewTable(codes)
}

// Lookup finds a code ignoring case and surrounding whitespace.
func (t *Table) Lookup(code string) (Code, bool) {
	if t == nil {
		return Code{}, false
	}
	c, ok := t.codes[normalize(code)]
	return c, ok
}

// Codes returns the entries in insertion order.
func (t *Table) Codes() []Code {
	if t == nil {
		return nil
	}
	out := make([]Code, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.codes[key])
	}
	return out
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
