package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

const maxSearchLen = 120

// ListProducts returns the catalog, optionally narrowed by ?q= and ?category=.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := catalog.ProductFilter{
			Query:    validators.ParseQueryString(r, "q", maxSearchLen),
			Category: validators.ParseQueryString(r, "category", maxSearchLen),
		}
		products, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns a single product.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct adds a product to the catalog.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update and returns the stored product.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), payload.toPatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Product deleted successfully", nil)
	}
}

// RecommendProducts suggests same-category products for the posted cart.
func RecommendProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var cart []catalog.CartProduct
		if err := validators.DecodeJSONBodyLenient(r, &cart); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Recommend(r.Context(), cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if products == nil {
			products = []catalog.Product{}
		}
		responses.WriteSuccess(w, products)
	}
}

type productRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	ImageSrc     *string   `json:"imageSrc"`
	ImageAlt     *string   `json:"imageAlt"`
	Category     *string   `json:"category"`
	DataAIHint   *string   `json:"dataAiHint"`
	Rating       *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount  *int      `json:"reviewCount" validate:"omitempty,gte=0"`
	Availability *string   `json:"availability"`
	Features     *[]string `json:"features"`
	HowToUse     *string   `json:"howToUse"`
	Ingredients  *string   `json:"ingredients"`
	SafetyInfo   *string   `json:"safetyInfo"`
}

func (p productRequest) toCreateInput() catalog.CreateProductInput {
	input := catalog.CreateProductInput{
		Name:         deref(p.Name),
		Description:  deref(p.Description),
		Price:        p.Price,
		ImageSrc:     deref(p.ImageSrc),
		ImageAlt:     deref(p.ImageAlt),
		Category:     deref(p.Category),
		DataAIHint:   deref(p.DataAIHint),
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
		Availability: deref(p.Availability),
		HowToUse:     deref(p.HowToUse),
		Ingredients:  deref(p.Ingredients),
		SafetyInfo:   deref(p.SafetyInfo),
	}
	if p.Features != nil {
		input.Features = *p.Features
	}
	return input
}

func (p productRequest) toPatch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ImageSrc:     p.ImageSrc,
		ImageAlt:     p.ImageAlt,
		Category:     p.Category,
		DataAIHint:   p.DataAIHint,
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
		Availability: p.Availability,
		Features:     p.Features,
		HowToUse:     p.HowToUse,
		Ingredients:  p.Ingredients,
		SafetyInfo:   p.SafetyInfo,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
