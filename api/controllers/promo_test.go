package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/biowe-backend/internal/promo"
)

func TestValidatePromoStatuses(t *testing.T) {
	evaluator, err := promo.NewEvaluator(promo.DefaultTable(), func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	handler := ValidatePromo(evaluator, testLogger())

	cases := []struct {
		name    string
		body    string
		status  int
		valid   bool
		message string
	}{
		{"applied", `{"code":"bio10"}`, http.StatusOK, true, promo.MessageApplied},
		{"missing", `{}`, http.StatusBadRequest, false, promo.MessageRequired},
		{"non string", `{"code":42}`, http.StatusBadRequest, false, promo.MessageRequired},
		{"empty", `{"code":""}`, http.StatusBadRequest, false, promo.MessageRequired},
		{"blank", `{"code":"   "}`, http.StatusNotFound, false, promo.MessageInvalid},
		{"unknown", `{"code":"NOPE"}`, http.StatusNotFound, false, promo.MessageInvalid},
		{"expired", `{"code":"EXPIRED"}`, http.StatusGone, false, promo.MessageExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/promo", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["valid"] != tc.valid || body["message"] != tc.message {
				t.Fatalf("unexpected body %v", body)
			}
			_, hasDiscount := body["discount"]
			if hasDiscount != tc.valid {
				t.Fatalf("discount presence should follow validity: %v", body)
			}
		})
	}
}

func TestValidatePromoDiscountDescriptor(t *testing.T) {
	evaluator, err := promo.NewEvaluator(promo.DefaultTable(), nil)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/promo", strings.NewReader(`{"code":"BIO50"}`))
	rec := httptest.NewRecorder()

	ValidatePromo(evaluator, testLogger()).ServeHTTP(rec, req)

	var body struct {
		Valid    bool            `json:"valid"`
		Discount *promo.Discount `json:"discount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Valid || body.Discount == nil || body.Discount.Code != "BIO50" || body.Discount.Amount != 50 {
		t.Fatalf("unexpected discount %+v", body.Discount)
	}
}
