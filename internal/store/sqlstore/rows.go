package sqlstore

import (
	"time"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	dbtypes "github.com/angelmondragon/biowe-backend/pkg/db/types"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

type productRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Description  string
	Price        float64
	ImageSrc     string
	ImageAlt     string
	Category     string
	DataAIHint   string `gorm:"column:data_ai_hint"`
	Rating       float64
	ReviewCount  int
	Availability string
	Features     dbtypes.JSON[[]string]
	HowToUse     string
	Ingredients  string
	SafetyInfo   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (productRow) TableName() string { return "products" }

func newProductRow(p *catalog.Product) productRow {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return productRow{
		ID:           p.ID,
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
		Features:     dbtypes.NewJSON(features),
		HowToUse:     p.HowToUse,
		Ingredients:  p.Ingredients,
		SafetyInfo:   p.SafetyInfo,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func (r productRow) toDomain() catalog.Product {
	features := r.Features.Val
	if features == nil {
		features = []string{}
	}
	return catalog.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		ImageSrc:     r.ImageSrc,
		ImageAlt:     r.ImageAlt,
		Category:     r.Category,
		DataAIHint:   r.DataAIHint,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		Availability: r.Availability,
		Features:     features,
		HowToUse:     r.HowToUse,
		Ingredients:  r.Ingredients,
		SafetyInfo:   r.SafetyInfo,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type blogPostRow struct {
	ID         string `gorm:"primaryKey"`
	Slug       string
	Title      string
	Excerpt    string
	Content    string
	ImageSrc   string
	ImageAlt   string
	DataAIHint string `gorm:"column:data_ai_hint"`
	Author     string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (blogPostRow) TableName() string { return "blog_posts" }

func newBlogPostRow(p *catalog.BlogPost) blogPostRow {
	return blogPostRow{
		ID:         p.ID,
		Slug:       p.Slug,
		Title:      p.Title,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		ImageSrc:   p.ImageSrc,
		ImageAlt:   p.ImageAlt,
		DataAIHint: p.DataAIHint,
		Author:     p.Author,
		Date:       p.Date.UTC(),
		CreatedAt:  p.CreatedAt.UTC(),
		UpdatedAt:  p.UpdatedAt.UTC(),
	}
}

func (r blogPostRow) toDomain() catalog.BlogPost {
	return catalog.BlogPost{
		ID:         r.ID,
		Slug:       r.Slug,
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		ImageSrc:   r.ImageSrc,
		ImageAlt:   r.ImageAlt,
		DataAIHint: r.DataAIHint,
		Author:     r.Author,
		Date:       r.Date.UTC(),
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

type orderRow struct {
	ID                string `gorm:"primaryKey"`
	OrderNumber       string
	UserID            string
	UserEmail         string
	UserName          string
	Items             dbtypes.JSON[[]orders.Item]
	Summary           dbtypes.JSON[orders.Summary]
	TotalAmount       float64
	ShippingAddress   dbtypes.JSON[orders.ShippingAddress]
	Status            string
	PaymentStatus     string
	Notes             string
	AdminNotes        string
	TrackingNumber    string
	EstimatedDelivery string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConfirmedAt       *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	Version           int64
}

func (orderRow) TableName() string { return "orders" }

func newOrderRow(o *orders.Order) orderRow {
	return orderRow{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		UserEmail:         o.UserEmail,
		UserName:          o.UserName,
		Items:             dbtypes.NewJSON(o.Items),
		Summary:           dbtypes.NewJSON(o.Summary),
		TotalAmount:       o.Summary.TotalAmount,
		ShippingAddress:   dbtypes.NewJSON(o.ShippingAddress),
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		Notes:             o.Notes,
		AdminNotes:        o.AdminNotes,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt.UTC(),
		UpdatedAt:         o.UpdatedAt.UTC(),
		ConfirmedAt:       utcPtr(o.ConfirmedAt),
		ShippedAt:         utcPtr(o.ShippedAt),
		DeliveredAt:       utcPtr(o.DeliveredAt),
		Version:           o.Version,
	}
}

// columns lists every mutable column for compare-and-swap updates.
func (r orderRow) columns() map[string]any {
	return map[string]any{
		"order_number":       r.OrderNumber,
		"user_id":            r.UserID,
		"user_email":         r.UserEmail,
		"user_name":          r.UserName,
		"items":              r.Items,
		"summary":            r.Summary,
		"total_amount":       r.TotalAmount,
		"shipping_address":   r.ShippingAddress,
		"status":             r.Status,
		"payment_status":     r.PaymentStatus,
		"notes":              r.Notes,
		"admin_notes":        r.AdminNotes,
		"tracking_number":    r.TrackingNumber,
		"estimated_delivery": r.EstimatedDelivery,
		"updated_at":         r.UpdatedAt,
		"confirmed_at":       r.ConfirmedAt,
		"shipped_at":         r.ShippedAt,
		"delivered_at":       r.DeliveredAt,
		"version":            r.Version,
	}
}

func (r orderRow) toDomain() orders.Order {
	return orders.Order{
		ID:                r.ID,
		OrderNumber:       r.OrderNumber,
		UserID:            r.UserID,
		UserEmail:         r.UserEmail,
		UserName:          r.UserName,
		Items:             r.Items.Val,
		Summary:           r.Summary.Val,
		ShippingAddress:   r.ShippingAddress.Val,
		Status:            enums.OrderStatus(r.Status),
		PaymentStatus:     enums.PaymentStatus(r.PaymentStatus),
		Notes:             r.Notes,
		AdminNotes:        r.AdminNotes,
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
		ConfirmedAt:       utcPtr(r.ConfirmedAt),
		ShippedAt:         utcPtr(r.ShippedAt),
		DeliveredAt:       utcPtr(r.DeliveredAt),
		Version:           r.Version,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
