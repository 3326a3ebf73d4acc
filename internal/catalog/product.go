package catalog

import (
	"strings"
	"time"
)

// DefaultAvailability is applied when a product is created without one.
const DefaultAvailability = "In Stock"

// Product is a catalog entry.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageSrc     string    `json:"imageSrc"`
	ImageAlt     string    `json:"imageAlt"`
	Category     string    `json:"category"`
	DataAIHint   string    `json:"dataAiHint"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"reviewCount"`
	Availability string    `json:"availability"`
	Features     []string  `json:"features"`
	HowToUse     string    `json:"howToUse"`
	Ingredients  string    `json:"ingredients"`
	SafetyInfo   string    `json:"safetyInfo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateProductInput carries the fields accepted when adding a product.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        *float64
	ImageSrc     string
	ImageAlt     string
	Category     string
	DataAIHint   string
	Rating       *float64
	ReviewCount  *int
	Availability string
	Features     []string
	HowToUse     string
	Ingredients  string
	SafetyInfo   string
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name         *string
	Description  *string
	Price        *float64
	ImageSrc     *string
	ImageAlt     *string
	Category     *string
	DataAIHint   *string
	Rating       *float64
	ReviewCount  *int
	Availability *string
	Features     *[]string
	HowToUse     *string
	Ingredients  *string
	SafetyInfo   *string
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Query    string
	Category string
}

// CartProduct is the slice of a cart line the recommender needs.
type CartProduct struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

func (p ProductPatch) apply(dst *Product) {
	setString(&dst.Name, p.Name)
	setString(&dst.Description, p.Description)
	setString(&dst.ImageSrc, p.ImageSrc)
	setString(&dst.ImageAlt, p.ImageAlt)
	setString(&dst.Category, p.Category)
	setString(&dst.DataAIHint, p.DataAIHint)
	setString(&dst.Availability, p.Availability)
	setString(&dst.HowToUse, p.HowToUse)
	setString(&dst.Ingredients, p.Ingredients)
	setString(&dst.SafetyInfo, p.SafetyInfo)
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Rating != nil {
		dst.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		dst.ReviewCount = *p.ReviewCount
	}
	if p.Features != nil {
		dst.Features = append([]string{}, (*p.Features)...)
	}
}

func (p ProductPatch) empty() bool {
	return p == ProductPatch{}
}

func (p Product) matches(query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Description, p.Category} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
