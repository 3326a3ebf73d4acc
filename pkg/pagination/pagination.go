package pagination

const (
	// DefaultLimit is the page size for a customer's order history.
	DefaultLimit = 20
	// DefaultAdminLimit is the page size for the admin order list.
	DefaultAdminLimit = 50
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Meta is the pagination block returned alongside a page of results.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"hasMore"`
}

// NormalizeLimit applies the fallback when limit is unset and clamps to MaxLimit.
func NormalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with a usable limit and a non-negative offset.
func (p Params) Normalize(fallback int) Params {
	p.Limit = NormalizeLimit(p.Limit, fallback)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NewMeta derives page numbers from an offset window over total rows.
func NewMeta(total int64, params Params) Meta {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{
		Total:      total,
		Page:       params.Offset/limit + 1,
		TotalPages: totalPages,
		Limit:      limit,
		Offset:     params.Offset,
		HasMore:    int64(params.Offset+limit) < total,
	}
}
