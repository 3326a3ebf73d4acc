package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	// MaxRecommendations caps the recommender output.
	MaxRecommendations = 4
	// RecommendationScanPerCategory bounds how many products are read per cart category.
	RecommendationScanPerCategory = 5
	maxSlugAttempts               = 50
)

// Service exposes catalog reads for everyone and writes for admins.
type Service interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Recommend(ctx context.Context, cart []CartProduct) ([]Product, error)

	ListPosts(ctx context.Context) ([]BlogPost, error)
	GetPost(ctx context.Context, id string) (*BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	CreatePost(ctx context.Context, input CreatePostInput) (*BlogPost, error)
	UpdatePost(ctx context.Context, id string, patch PostPatch) (*BlogPost, error)
	DeletePost(ctx context.Context, id string) error
}

type service struct {
	products ProductRepository
	posts    BlogRepository
	now      func() time.Time
}

// NewService builds the catalog service.
func NewService(products ProductRepository, posts BlogRepository, now func() time.Time) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if posts == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{products: products, posts: posts, now: now}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	products, err := s.products.ListProducts(ctx, strings.TrimSpace(filter.Category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch products")
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.matches(query) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, productErr(err, "failed to fetch product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	product := &Product{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		Price:        *input.Price,
		ImageSrc:     strings.TrimSpace(input.ImageSrc),
		ImageAlt:     strings.TrimSpace(input.ImageAlt),
		Category:     strings.TrimSpace(input.Category),
		DataAIHint:   strings.TrimSpace(input.DataAIHint),
		Availability: strings.TrimSpace(input.Availability),
		Features:     append([]string{}, input.Features...),
		HowToUse:     strings.TrimSpace(input.HowToUse),
		Ingredients:  strings.TrimSpace(input.Ingredients),
		SafetyInfo:   strings.TrimSpace(input.SafetyInfo),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.ReviewCount != nil {
		product.ReviewCount = *input.ReviewCount
	}
	if product.Availability == "" {
		product.Availability = DefaultAvailability
	}
	if err := s.products.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to add product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	if patch.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if patch.ReviewCount != nil && *patch.ReviewCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewCount must not be negative")
	}
	for name, value := range map[string]*string{"name": patch.Name, "description": patch.Description, "category": patch.Category} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be empty", name)
		}
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(product)
	product.UpdatedAt = s.now().UTC()
	if err := s.products.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return productErr(err, "failed to delete product")
	}
	return nil
}

// Recommend returns up to MaxRecommendations products sharing a category with
// the cart, scanning categories in first-seen order and skipping cart items.
func (s *service) Recommend(ctx context.Context, cart []CartProduct) ([]Product, error) {
	out := []Product{}
	if len(cart) == 0 {
		return out, nil
	}

	inCart := make(map[string]struct{}, len(cart))
	var categories []string
	seenCategory := map[string]struct{}{}
	for _, item := range cart {
		inCart[item.ID] = struct{}{}
		category := strings.TrimSpace(item.Category)
		if category == "" {
			continue
		}
		if _, ok := seenCategory[category]; ok {
			continue
		}
		seenCategory[category] = struct{}{}
		categories = append(categories, category)
	}

	picked := map[string]struct{}{}
	for _, category := range categories {
		candidates, err := s.products.ListProductsByCategory(ctx, category, RecommendationScanPerCategory)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch recommendations")
		}
		for _, p := range candidates {
			if _, ok := inCart[p.ID]; ok {
				continue
			}
			if _, ok := picked[p.ID]; ok {
				continue
			}
			picked[p.ID] = struct{}{}
			out = append(out, p)
		}
		if len(out) >= MaxRecommendations {
			break
		}
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out, nil
}

func (s *service) ListPosts(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch blog posts")
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	return posts, nil
}

func (s *service) GetPost(ctx context.Context, id string) (*BlogPost, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog post id is required")
	}
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, postErr(err, "failed to fetch blog post")
	}
	return post, nil
}

func (s *service) GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	post, err := s.posts.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, postErr(err, "failed to fetch blog post")
	}
	return post, nil
}

func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*BlogPost, error) {
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	base := Slugify(input.Slug)
	if base == "" {
		base = Slugify(input.Title)
	}
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from title")
	}
	slug, err := s.availableSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := now
	if input.Date != nil && !input.Date.IsZero() {
		date = input.Date.UTC()
	}
	post := &BlogPost{
		ID:         uuid.NewString(),
		Slug:       slug,
		Title:      strings.TrimSpace(input.Title),
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Content:    input.Content,
		ImageSrc:   strings.TrimSpace(input.ImageSrc),
		ImageAlt:   strings.TrimSpace(input.ImageAlt),
		DataAIHint: strings.TrimSpace(input.DataAIHint),
		Author:     strings.TrimSpace(input.Author),
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.SavePost(ctx, post); err != nil {
		return nil, savePostErr(err, "failed to add blog post")
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, id string, patch PostPatch) (*BlogPost, error) {
	if patch.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	for name, value := range map[string]*string{"title": patch.Title, "excerpt": patch.Excerpt, "content": patch.Content, "author": patch.Author} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be empty", name)
		}
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Slug != nil {
		slug := Slugify(*patch.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must contain letters or digits")
		}
		if slug != post.Slug {
			existing, err := s.posts.GetPostBySlug(ctx, slug)
			switch {
			case err == nil && existing.ID != post.ID:
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").WithDetails(map[string]any{"slug": slug})
			case err != nil && !errors.Is(err, ErrNotFound):
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check slug")
			}
			post.Slug = slug
		}
	}

	patch.apply(post)
	post.UpdatedAt = s.now().UTC()
	if err := s.posts.SavePost(ctx, post); err != nil {
		return nil, savePostErr(err, "failed to update blog post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "blog post id is required")
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return postErr(err, "failed to delete blog post")
	}
	return nil
}

// availableSlug returns base, or base-2, base-3, ... when taken.
func (s *service) availableSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		_, err := s.posts.GetPostBySlug(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check slug")
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "slug already in use").WithDetails(map[string]any{"slug": base})
}

func validateProductInput(input CreateProductInput) error {
	missing := missingFields(map[string]string{
		"name":        input.Name,
		"description": input.Description,
		"imageSrc":    input.ImageSrc,
		"imageAlt":    input.ImageAlt,
		"category":    input.Category,
	})
	if input.Price == nil {
		missing = append(missing, "price")
		sort.Strings(missing)
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").WithDetails(map[string]any{"missing": missing})
	}
	if *input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if input.ReviewCount != nil && *input.ReviewCount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reviewCount must not be negative")
	}
	return nil
}

func validatePostInput(input CreatePostInput) error {
	missing := missingFields(map[string]string{
		"title":    input.Title,
		"excerpt":  input.Excerpt,
		"content":  input.Content,
		"imageSrc": input.ImageSrc,
		"imageAlt": input.ImageAlt,
		"author":   input.Author,
	})
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func productErr(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func postErr(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Blog post not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func savePostErr(err error, msg string) error {
	if errors.Is(err, ErrSlugTaken) {
		return pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
