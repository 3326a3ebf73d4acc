package docstore

import (
	"time"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
)

const (
	productsCollection = "products"
	postsCollection    = "blogPosts"
	ordersCollection   = "orders"
)

type productDoc struct {
	Name         string    `firestore:"name"`
	Description  string    `firestore:"description"`
	Price        float64   `firestore:"price"`
	ImageSrc     string    `firestore:"imageSrc"`
	ImageAlt     string    `firestore:"imageAlt"`
	Category     string    `firestore:"category"`
	DataAIHint   string    `firestore:"dataAiHint"`
	Rating       float64   `firestore:"rating"`
	ReviewCount  int       `firestore:"reviewCount"`
	Availability string    `firestore:"availability"`
	Features     []string  `firestore:"features"`
	HowToUse     string    `firestore:"howToUse"`
	Ingredients  string    `firestore:"ingredients"`
	SafetyInfo   string    `firestore:"safetyInfo"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func newProductDoc(p *catalog.Product) productDoc {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return productDoc{
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
		Features:     features,
		HowToUse:     p.HowToUse,
		Ingredients:  p.Ingredients,
		SafetyInfo:   p.SafetyInfo,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func (d productDoc) toDomain(id string) catalog.Product {
	features := d.Features
	if features == nil {
		features = []string{}
	}
	availability := d.Availability
	if availability == "" {
		availability = catalog.DefaultAvailability
	}
	return catalog.Product{
		ID:           id,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		ImageSrc:     d.ImageSrc,
		ImageAlt:     d.ImageAlt,
		Category:     d.Category,
		DataAIHint:   d.DataAIHint,
		Rating:       d.Rating,
		ReviewCount:  d.ReviewCount,
		Availability: availability,
		Features:     features,
		HowToUse:     d.HowToUse,
		Ingredients:  d.Ingredients,
		SafetyInfo:   d.SafetyInfo,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type postDoc struct {
	Slug       string    `firestore:"slug"`
	Title      string    `firestore:"title"`
	Excerpt    string    `firestore:"excerpt"`
	Content    string    `firestore:"content"`
	ImageSrc   string    `firestore:"imageSrc"`
	ImageAlt   string    `firestore:"imageAlt"`
	DataAIHint string    `firestore:"dataAiHint"`
	Author     string    `firestore:"author"`
	Date       time.Time `firestore:"date"`
	CreatedAt  time.Time `firestore:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
}

func newPostDoc(p *catalog.BlogPost) postDoc {
	return postDoc{
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

func (d postDoc) toDomain(id string) catalog.BlogPost {
	return catalog.BlogPost{
		ID:         id,
		Slug:       d.Slug,
		Title:      d.Title,
		Excerpt:    d.Excerpt,
		Content:    d.Content,
		ImageSrc:   d.ImageSrc,
		ImageAlt:   d.ImageAlt,
		DataAIHint: d.DataAIHint,
		Author:     d.Author,
		Date:       d.Date.UTC(),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

type itemDoc struct {
	ProductID       string  `firestore:"productId"`
	ProductName     string  `firestore:"productName"`
	ProductPrice    float64 `firestore:"productPrice"`
	ProductImageSrc string  `firestore:"productImageSrc"`
	Quantity        int     `firestore:"quantity"`
	Subtotal        float64 `firestore:"subtotal"`
}

type summaryDoc struct {
	Subtotal       float64 `firestore:"subtotal"`
	DiscountAmount float64 `firestore:"discountAmount"`
	DiscountCode   string  `firestore:"discountCode,omitempty"`
	ShippingCost   float64 `firestore:"shippingCost"`
	TaxAmount      float64 `firestore:"taxAmount"`
	TotalAmount    float64 `firestore:"totalAmount"`
}

type addressDoc struct {
	FullName     string `firestore:"fullName"`
	AddressLine1 string `firestore:"addressLine1"`
	AddressLine2 string `firestore:"addressLine2,omitempty"`
	City         string `firestore:"city"`
	State        string `firestore:"state"`
	PostalCode   string `firestore:"postalCode"`
	Country      string `firestore:"country"`
	PhoneNumber  string `firestore:"phoneNumber,omitempty"`
}

// orderDoc mirrors the order document. totalAmount is lifted to the top
// level so listings can sort on it.
type orderDoc struct {
	OrderNumber       string     `firestore:"orderNumber"`
	UserID            string     `firestore:"userId"`
	UserEmail         string     `firestore:"userEmail"`
	UserName          string     `firestore:"userName"`
	Items             []itemDoc  `firestore:"items"`
	Summary           summaryDoc `firestore:"summary"`
	TotalAmount       float64    `firestore:"totalAmount"`
	ShippingAddress   addressDoc `firestore:"shippingAddress"`
	Status            string     `firestore:"status"`
	PaymentStatus     string     `firestore:"paymentStatus"`
	Notes             string     `firestore:"notes,omitempty"`
	AdminNotes        string     `firestore:"adminNotes,omitempty"`
	TrackingNumber    string     `firestore:"trackingNumber,omitempty"`
	EstimatedDelivery string     `firestore:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time  `firestore:"createdAt"`
	UpdatedAt         time.Time  `firestore:"updatedAt"`
	ConfirmedAt       *time.Time `firestore:"confirmedAt,omitempty"`
	ShippedAt         *time.Time `firestore:"shippedAt,omitempty"`
	DeliveredAt       *time.Time `firestore:"deliveredAt,omitempty"`
	Version           int64      `firestore:"version"`
}

func newOrderDoc(o *orders.Order) orderDoc {
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDoc(it))
	}
	return orderDoc{
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		UserEmail:         o.UserEmail,
		UserName:          o.UserName,
		Items:             items,
		Summary:           summaryDoc(o.Summary),
		TotalAmount:       o.Summary.TotalAmount,
		ShippingAddress:   addressDoc(o.ShippingAddress),
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		Notes:             o.Notes,
		AdminNotes:        o.AdminNotes,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt.UTC(),
		UpdatedAt:         o.UpdatedAt.UTC(),
		ConfirmedAt:       o.ConfirmedAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		Version:           o.Version,
	}
}

func (d orderDoc) toDomain(id string) orders.Order {
	items := make([]orders.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orders.Item(it))
	}
	version := d.Version
	if version == 0 {
		version = 1
	}
	return orders.Order{
		ID:                id,
		OrderNumber:       d.OrderNumber,
		UserID:            d.UserID,
		UserEmail:         d.UserEmail,
		UserName:          d.UserName,
		Items:             items,
		Summary:           orders.Summary(d.Summary),
		ShippingAddress:   orders.ShippingAddress(d.ShippingAddress),
		Status:            enums.OrderStatus(d.Status),
		PaymentStatus:     enums.PaymentStatus(d.PaymentStatus),
		Notes:             d.Notes,
		AdminNotes:        d.AdminNotes,
		TrackingNumber:    d.TrackingNumber,
		EstimatedDelivery: d.EstimatedDelivery,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
		ConfirmedAt:       d.ConfirmedAt,
		ShippedAt:         d.ShippedAt,
		DeliveredAt:       d.DeliveredAt,
		Version:           version,
	}
}
