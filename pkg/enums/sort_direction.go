package enums

import (
	"fmt"
	"strings"
)

// SortDirection is the ordering applied to list queries.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// String implements fmt.Stringer.
func (d SortDirection) String() string {
	return string(d)
}

// IsValid reports whether the value is a known SortDirection.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// ParseSortDirection accepts asc/desc in any case.
func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(value))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
