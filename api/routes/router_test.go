package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/internal/promo"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/metrics"
	"github.com/angelmondragon/biowe-backend/pkg/pagination"
)

type stubCatalog struct {
	catalog.Service
}

func (stubCatalog) ListProducts(context.Context, catalog.ProductFilter) ([]catalog.Product, error) {
	return []catalog.Product{{ID: "p1", Name: "Neem Oil"}}, nil
}

func (stubCatalog) CreateProduct(_ context.Context, input catalog.CreateProductInput) (*catalog.Product, error) {
	return &catalog.Product{ID: "new", Name: input.Name}, nil
}

func (stubCatalog) GetPost(_ context.Context, id string) (*catalog.BlogPost, error) {
	return &catalog.BlogPost{ID: id}, nil
}

func (stubCatalog) GetPostBySlug(_ context.Context, slug string) (*catalog.BlogPost, error) {
	return &catalog.BlogPost{ID: "by-slug", Slug: slug}, nil
}

type stubOrders struct {
	orders.Service
}

func (stubOrders) CreateOrder(_ context.Context, principal identity.Principal, _ orders.CreateOrderInput) (*orders.Order, error) {
	return &orders.Order{ID: "o1", UserID: principal.UID, Version: 1}, nil
}

func (stubOrders) ListOrders(_ context.Context, _ identity.Principal, query orders.ListQuery) (*orders.ListResult, error) {
	return &orders.ListResult{Orders: []orders.Order{}, Pagination: pagination.NewMeta(0, query.Page)}, nil
}

type routerFixture struct {
	handler    http.Handler
	userToken  string
	adminToken string
}

func newFixture(t *testing.T) routerFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Auth = config.AuthConfig{Provider: "jwt", JWTSecret: "router-test-secret", JWTIssuer: "biowe", JWTTTL: time.Hour}
	cfg.Upload.MaxUploadMB = 5
	cfg.Upload.ObjectPrefix = "products/"

	verifier, err := identity.NewJWTVerifier(cfg.Auth, nil)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	userToken, err := verifier.Mint(identity.Principal{UID: "user-1", Email: "user@biowe.in"})
	if err != nil {
		t.Fatalf("mint user: %v", err)
	}
	adminToken, err := verifier.Mint(identity.Principal{UID: "admin-1", Email: "admin@biowe.in", Admin: true})
	if err != nil {
		t.Fatalf("mint admin: %v", err)
	}

	evaluator, err := promo.NewEvaluator(promo.DefaultTable(), nil)
	if err != nil {
		t.Fatalf("promo: %v", err)
	}

	registry := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	handler := NewRouter(cfg, logg, Services{
		Verifier: verifier,
		Catalog:  stubCatalog{},
		Promo:    evaluator,
		Orders:   stubOrders{},
		Metrics:  metrics.NewHTTPMetrics(registry),
		Gatherer: registry,
	})
	return routerFixture{handler: handler, userToken: userToken, adminToken: adminToken}
}

func (f routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodGet, "/api/products", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("list products: expected 200, got %d", rec.Code)
	}
	rec := f.do(http.MethodGet, "/api/blog/slug/soil-health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"by-slug"`) {
		t.Fatalf("slug route: %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodPost, "/api/promo", "", `{"code":"BIO10"}`); rec.Code != http.StatusOK {
		t.Fatalf("promo: expected 200, got %d", rec.Code)
	}
}

func TestAdminCatalogRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Bio Grow","price":10,"category":"Fertilizers"}`

	if rec := f.do(http.MethodPost, "/api/products", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/api/products", f.userToken, body); rec.Code != http.StatusForbidden {
		t.Fatalf("user: expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/api/products", f.adminToken, body); rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodDelete, "/api/blog/b1", "not-a-token", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}
}

func TestOrderRoutes(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(http.MethodGet, "/api/orders", f.userToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user listing all orders: expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/orders?limit=5", f.adminToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin listing: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/orders/user/user-1", f.userToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/api/orders", "", `{"items":[]}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous order: expected 401, got %d", rec.Code)
	}
	rec := f.do(http.MethodPost, "/api/orders", f.userToken, `{"items":[{"productId":"p1","quantity":1}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"userId":"user-1"`) {
		t.Fatalf("order should belong to the caller: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/api/products", "", "")

	rec := f.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/api/products`) {
		t.Fatalf("expected request counter in exposition:\n%s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestPromoAcceptsAnonymousAndSignedInCallers(t *testing.T) {
	f := newFixture(t)
	for _, token := range []string{"", f.userToken, "not-a-token"} {
		rec := f.do(http.MethodPost, "/api/promo", token, `{"code":"bio50"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("token %q: expected 200, got %d (%s)", token, rec.Code, rec.Body.String())
		}
	}
}
