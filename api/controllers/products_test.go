package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

// stubCatalog implements catalog.Service; unset hooks panic when called.
type stubCatalog struct {
	catalog.Service

	listProducts  func(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error)
	getProduct    func(ctx context.Context, id string) (*catalog.Product, error)
	createProduct func(ctx context.Context, input catalog.CreateProductInput) (*catalog.Product, error)
	updateProduct func(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error)
	deleteProduct func(ctx context.Context, id string) error
	recommend     func(ctx context.Context, cart []catalog.CartProduct) ([]catalog.Product, error)
	getPostBySlug func(ctx context.Context, slug string) (*catalog.BlogPost, error)
	createPost    func(ctx context.Context, input catalog.CreatePostInput) (*catalog.BlogPost, error)
	updatePost    func(ctx context.Context, id string, patch catalog.PostPatch) (*catalog.BlogPost, error)
}

func (s *stubCatalog) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	return s.listProducts(ctx, filter)
}

func (s *stubCatalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return s.getProduct(ctx, id)
}

func (s *stubCatalog) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.Product, error) {
	return s.createProduct(ctx, input)
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	return s.updateProduct(ctx, id, patch)
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteProduct(ctx, id)
}

func (s *stubCatalog) Recommend(ctx context.Context, cart []catalog.CartProduct) ([]catalog.Product, error) {
	return s.recommend(ctx, cart)
}

func (s *stubCatalog) GetPostBySlug(ctx context.Context, slug string) (*catalog.BlogPost, error) {
	return s.getPostBySlug(ctx, slug)
}

func (s *stubCatalog) CreatePost(ctx context.Context, input catalog.CreatePostInput) (*catalog.BlogPost, error) {
	return s.createPost(ctx, input)
}

func (s *stubCatalog) UpdatePost(ctx context.Context, id string, patch catalog.PostPatch) (*catalog.BlogPost, error) {
	return s.updatePost(ctx, id, patch)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListProductsPassesFilter(t *testing.T) {
	var got catalog.ProductFilter
	svc := &stubCatalog{
		listProducts: func(_ context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
			got = filter
			return []catalog.Product{{ID: "p1", Name: "Neem Oil"}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/products?q=neem&category=%20Pest%20Control%20", nil)
	rec := httptest.NewRecorder()

	ListProducts(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Query != "neem" || got.Category != "Pest Control" {
		t.Fatalf("unexpected filter %+v", got)
	}
	var body []catalog.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].ID != "p1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalog{
		getProduct: func(context.Context, string) (*catalog.Product, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		},
	}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/missing", nil), map[string]string{"id": "missing"})
	rec := httptest.NewRecorder()

	GetProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Product not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCreateProductMapsPayload(t *testing.T) {
	var got catalog.CreateProductInput
	svc := &stubCatalog{
		createProduct: func(_ context.Context, input catalog.CreateProductInput) (*catalog.Product, error) {
			got = input
			return &catalog.Product{ID: "new", Name: input.Name}, nil
		},
	}
	body := `{"name":" Bio Grow ","price":249.5,"category":"Fertilizers","features":["organic"],"id":"client-sent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()

	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.Name != "Bio Grow" || got.Price == nil || *got.Price != 249.5 {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Rating != nil || got.ReviewCount != nil {
		t.Fatalf("absent numeric fields should stay nil")
	}
	if len(got.Features) != 1 || got.Features[0] != "organic" {
		t.Fatalf("unexpected features %v", got.Features)
	}
}

func TestCreateProductRejectsNonNumericPrice(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"x","price":"cheap"}`))
	rec := httptest.NewRecorder()

	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"x","price":-1}`))
	rec := httptest.NewRecorder()

	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateProductBuildsPatch(t *testing.T) {
	var gotID string
	var got catalog.ProductPatch
	svc := &stubCatalog{
		updateProduct: func(_ context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
			gotID, got = id, patch
			return &catalog.Product{ID: id, Availability: "Out of Stock"}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPut, "/api/products/p1", strings.NewReader(`{"availability":"Out of Stock"}`))
	req = withURLParams(req, map[string]string{"id": "p1"})
	rec := httptest.NewRecorder()

	UpdateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "p1" || got.Availability == nil || *got.Availability != "Out of Stock" {
		t.Fatalf("unexpected patch %q %+v", gotID, got)
	}
	if got.Name != nil || got.Price != nil || got.Features != nil {
		t.Fatalf("untouched fields must stay nil: %+v", got)
	}
}

func TestDeleteProductMessage(t *testing.T) {
	svc := &stubCatalog{
		deleteProduct: func(context.Context, string) error { return nil },
	}
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil), map[string]string{"id": "p1"})
	rec := httptest.NewRecorder()

	DeleteProduct(svc, testLogger()).ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if rec.Code != http.StatusOK || body["message"] != "Product deleted successfully" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestRecommendProductsEmptyArray(t *testing.T) {
	var got []catalog.CartProduct
	svc := &stubCatalog{
		recommend: func(_ context.Context, cart []catalog.CartProduct) ([]catalog.Product, error) {
			got = cart
			return nil, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/products/recommendations", strings.NewReader(`[{"id":"p1","category":"Fertilizers","name":"ignored"}]`))
	rec := httptest.NewRecorder()

	RecommendProducts(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
	if len(got) != 1 || got[0].Category != "Fertilizers" {
		t.Fatalf("unexpected cart %+v", got)
	}
}

func TestCatalogNilServiceIsInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	ListProducts(nil, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
