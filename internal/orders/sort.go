package orders

import (
	"strings"

	"github.com/angelmondragon/biowe-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
)

// SortField is a sortable order attribute exposed to callers.
type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortUpdatedAt   SortField = "updatedAt"
	SortOrderNumber SortField = "orderNumber"
	SortStatus      SortField = "status"
	SortTotalAmount SortField = "totalAmount"
)

var sortableFields = []SortField{SortCreatedAt, SortUpdatedAt, SortOrderNumber, SortStatus, SortTotalAmount}

// Sort is an allow-listed field plus direction.
type Sort struct {
	Field SortField
	Dir   enums.SortDirection
}

// DefaultSort lists newest orders first.
var DefaultSort = Sort{Field: SortCreatedAt, Dir: enums.SortDesc}

// ParseSort validates caller supplied sort parameters; blanks fall back to DefaultSort.
func ParseSort(field, direction string) (Sort, error) {
	out := DefaultSort
	if raw := strings.TrimSpace(field); raw != "" {
		matched := false
		for _, candidate := range sortableFields {
			if string(candidate) == raw {
				out.Field = candidate
				matched = true
				break
			}
		}
		if !matched {
			return Sort{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Invalid sort field %q", raw).
				WithDetails(map[string]any{"sortBy": raw, "allowed": sortableFields})
		}
	}
	if strings.TrimSpace(direction) != "" {
		dir, err := enums.ParseSortDirection(direction)
		if err != nil {
			return Sort{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid sort order").
				WithDetails(map[string]any{"sortOrder": direction, "allowed": []enums.SortDirection{enums.SortAsc, enums.SortDesc}})
		}
		out.Dir = dir
	}
	return out, nil
}
