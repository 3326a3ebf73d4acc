package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/biowe-backend/internal/identity"
	internalorders "github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/pagination"
)

type stubOrdersService struct {
	create func(ctx context.Context, principal identity.Principal, input internalorders.CreateOrderInput) (*internalorders.Order, error)
	get    func(ctx context.Context, id string, principal identity.Principal) (*internalorders.Order, error)
	update func(ctx context.Context, id string, input internalorders.UpdateStatusInput) (*internalorders.Order, error)
	remove func(ctx context.Context, id string, principal identity.Principal) (internalorders.Outcome, error)
	list   func(ctx context.Context, principal identity.Principal, query internalorders.ListQuery) (*internalorders.ListResult, error)
}

func (s *stubOrdersService) CreateOrder(ctx context.Context, principal identity.Principal, input internalorders.CreateOrderInput) (*internalorders.Order, error) {
	return s.create(ctx, principal, input)
}

func (s *stubOrdersService) GetOrder(ctx context.Context, id string, principal identity.Principal) (*internalorders.Order, error) {
	return s.get(ctx, id, principal)
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id string, input internalorders.UpdateStatusInput) (*internalorders.Order, error) {
	return s.update(ctx, id, input)
}

func (s *stubOrdersService) RemoveOrder(ctx context.Context, id string, principal identity.Principal) (internalorders.Outcome, error) {
	return s.remove(ctx, id, principal)
}

func (s *stubOrdersService) ListOrders(ctx context.Context, principal identity.Principal, query internalorders.ListQuery) (*internalorders.ListResult, error) {
	return s.list(ctx, principal, query)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func newRequest(method, target, body string, principal *identity.Principal, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if principal != nil {
		ctx = identity.WithPrincipal(ctx, *principal)
	}
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rc)
	return req.WithContext(ctx)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestCreateReturnsOrderAndMessage(t *testing.T) {
	var got internalorders.CreateOrderInput
	svc := &stubOrdersService{
		create: func(_ context.Context, principal identity.Principal, input internalorders.CreateOrderInput) (*internalorders.Order, error) {
			if principal.UID != "user-1" {
				t.Fatalf("unexpected principal %q", principal.UID)
			}
			got = input
			return &internalorders.Order{ID: "order-1", OrderNumber: "ORD-1", Status: enums.OrderStatusPending, Version: 1}, nil
		},
	}

	body := `{"items":[{"productId":"p1","quantity":2}],"shippingAddress":{"fullName":"Ana","addressLine1":"1 Main"},"discountCode":" save10 ","notes":"  leave at door ","extra":true}`
	req := newRequest(http.MethodPost, "/api/orders", body, &identity.Principal{UID: "user-1"}, nil)
	rec := httptest.NewRecorder()

	Create(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("ETag") != `"1"` {
		t.Fatalf("expected ETag \"1\", got %q", rec.Header().Get("ETag"))
	}
	resp := decode(t, rec)
	if resp["message"] != "Order placed successfully" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
	order, ok := resp["order"].(map[string]any)
	if !ok || order["id"] != "order-1" {
		t.Fatalf("unexpected order %v", resp["order"])
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", got.Items)
	}
	if got.DiscountCode != "save10" || got.Notes != "leave at door" {
		t.Fatalf("expected trimmed inputs, got %q %q", got.DiscountCode, got.Notes)
	}
}

func TestCreateRequiresPrincipal(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodPost, "/api/orders", `{}`, nil, nil)
	rec := httptest.NewRecorder()

	Create(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateSurfacesServiceErrors(t *testing.T) {
	svc := &stubOrdersService{
		create: func(context.Context, identity.Principal, internalorders.CreateOrderInput) (*internalorders.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order must contain at least one item")
		},
	}
	req := newRequest(http.MethodPost, "/api/orders", `{"items":[]}`, &identity.Principal{UID: "user-1"}, nil)
	rec := httptest.NewRecorder()

	Create(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["error"] != "Order must contain at least one item" {
		t.Fatalf("unexpected error body %v", resp)
	}
}

func TestDetailWrapsOrder(t *testing.T) {
	svc := &stubOrdersService{
		get: func(_ context.Context, id string, _ identity.Principal) (*internalorders.Order, error) {
			if id != "order-9" {
				t.Fatalf("unexpected id %q", id)
			}
			return &internalorders.Order{ID: id, Version: 3}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/orders/order-9", "", &identity.Principal{UID: "user-1"}, map[string]string{"id": "order-9"})
	rec := httptest.NewRecorder()

	Detail(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if _, ok := resp["message"]; ok {
		t.Fatalf("detail response should not carry a message: %v", resp)
	}
	if order, ok := resp["order"].(map[string]any); !ok || order["id"] != "order-9" {
		t.Fatalf("unexpected order %v", resp["order"])
	}
}

func TestUpdateStatusUsesIfMatchVersion(t *testing.T) {
	var got internalorders.UpdateStatusInput
	svc := &stubOrdersService{
		update: func(_ context.Context, _ string, input internalorders.UpdateStatusInput) (*internalorders.Order, error) {
			got = input
			return &internalorders.Order{ID: "order-1", Status: enums.OrderStatusShipped, Version: 5}, nil
		},
	}
	req := newRequest(http.MethodPut, "/api/orders/order-1", `{"status":"shipped","trackingNumber":"TRK1"}`, &identity.Principal{UID: "admin", Admin: true}, map[string]string{"id": "order-1"})
	req.Header.Set("If-Match", `W/"4"`)
	rec := httptest.NewRecorder()

	UpdateStatus(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.ExpectedVersion == nil || *got.ExpectedVersion != 4 {
		t.Fatalf("expected version 4 from If-Match, got %v", got.ExpectedVersion)
	}
	if got.TrackingNumber == nil || *got.TrackingNumber != "TRK1" || got.AdminNotes != nil {
		t.Fatalf("unexpected optional fields %+v", got)
	}
	if resp := decode(t, rec); resp["message"] != "Order status updated to shipped" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
}

func TestUpdateStatusBodyVersionWins(t *testing.T) {
	var got internalorders.UpdateStatusInput
	svc := &stubOrdersService{
		update: func(_ context.Context, _ string, input internalorders.UpdateStatusInput) (*internalorders.Order, error) {
			got = input
			return &internalorders.Order{ID: "order-1", Status: enums.OrderStatusConfirmed, Version: 3}, nil
		},
	}
	req := newRequest(http.MethodPut, "/api/orders/order-1", `{"status":"confirmed","version":2}`, nil, map[string]string{"id": "order-1"})
	req.Header.Set("If-Match", `"9"`)
	rec := httptest.NewRecorder()

	UpdateStatus(svc, testLogger()).ServeHTTP(rec, req)

	if got.ExpectedVersion == nil || *got.ExpectedVersion != 2 {
		t.Fatalf("expected body version 2, got %v", got.ExpectedVersion)
	}
}

func TestUpdateStatusRejectsBadIfMatch(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodPut, "/api/orders/order-1", `{"status":"confirmed"}`, nil, map[string]string{"id": "order-1"})
	req.Header.Set("If-Match", `"abc"`)
	rec := httptest.NewRecorder()

	UpdateStatus(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateStatusConflict(t *testing.T) {
	svc := &stubOrdersService{
		update: func(context.Context, string, internalorders.UpdateStatusInput) (*internalorders.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		},
	}
	req := newRequest(http.MethodPut, "/api/orders/order-1", `{"status":"confirmed","version":1}`, nil, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	UpdateStatus(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRemoveReportsOutcome(t *testing.T) {
	cases := []struct {
		outcome internalorders.Outcome
		message string
	}{
		{internalorders.OutcomeDeleted, "Order deleted successfully"},
		{internalorders.OutcomeCancelled, "Order cancelled successfully"},
	}
	for _, tc := range cases {
		svc := &stubOrdersService{
			remove: func(context.Context, string, identity.Principal) (internalorders.Outcome, error) {
				return tc.outcome, nil
			},
		}
		req := newRequest(http.MethodDelete, "/api/orders/order-1", "", &identity.Principal{UID: "user-1"}, map[string]string{"id": "order-1"})
		rec := httptest.NewRecorder()

		Remove(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if resp := decode(t, rec); resp["message"] != tc.message {
			t.Fatalf("expected %q, got %v", tc.message, resp["message"])
		}
	}
}

func TestListParsesAdminQuery(t *testing.T) {
	var got internalorders.ListQuery
	svc := &stubOrdersService{
		list: func(_ context.Context, principal identity.Principal, query internalorders.ListQuery) (*internalorders.ListResult, error) {
			if !principal.Admin {
				t.Fatalf("expected admin principal")
			}
			got = query
			return &internalorders.ListResult{Orders: []internalorders.Order{}, Total: 0, Pagination: pagination.NewMeta(0, query.Page)}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/orders?status=shipped&limit=10&offset=20&sortBy=status", "", &identity.Principal{UID: "admin", Admin: true}, nil)
	rec := httptest.NewRecorder()

	List(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.Filter.Status != enums.OrderStatusShipped || got.Page.Limit != 10 || got.Page.Offset != 20 {
		t.Fatalf("unexpected query %+v", got)
	}
	if got.Sort != internalorders.DefaultSort {
		t.Fatalf("admin listing ignores sortBy, got %+v", got.Sort)
	}
	resp := decode(t, rec)
	if _, ok := resp["orders"]; !ok {
		t.Fatalf("expected orders key in %v", resp)
	}
	if _, ok := resp["pagination"]; !ok {
		t.Fatalf("expected pagination key in %v", resp)
	}
}

func TestListRejectsOversizedLimit(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodGet, "/api/orders?limit=500", "", &identity.Principal{UID: "admin", Admin: true}, nil)
	rec := httptest.NewRecorder()

	List(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryScopesToUserAndSort(t *testing.T) {
	var got internalorders.ListQuery
	svc := &stubOrdersService{
		list: func(_ context.Context, _ identity.Principal, query internalorders.ListQuery) (*internalorders.ListResult, error) {
			got = query
			return &internalorders.ListResult{Orders: []internalorders.Order{}}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/orders/user/user-1?sortBy=totalAmount&sortOrder=asc", "", &identity.Principal{UID: "user-1"}, map[string]string{"userId": "user-1"})
	rec := httptest.NewRecorder()

	History(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.Filter.UserID != "user-1" || got.Page.Limit != pagination.DefaultLimit {
		t.Fatalf("unexpected query %+v", got)
	}
	if got.Sort.Field != internalorders.SortTotalAmount || got.Sort.Dir != enums.SortAsc {
		t.Fatalf("unexpected sort %+v", got.Sort)
	}
}

func TestHistoryRejectsUnknownSortField(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodGet, "/api/orders/user/user-1?sortBy=userEmail", "", &identity.Principal{UID: "user-1"}, map[string]string{"userId": "user-1"})
	rec := httptest.NewRecorder()

	History(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNilServiceIsInternalError(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/orders", "", &identity.Principal{UID: "admin", Admin: true}, nil)
	rec := httptest.NewRecorder()

	List(nil, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
